package crypto

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// ErrSignerWiped is returned when signing with a signer whose key was wiped
var ErrSignerWiped = errors.New("signer key has been wiped")

// LocalSigner signs transactions with a key held in process memory.
// It implements client.Signer.
type LocalSigner struct {
	mu  sync.RWMutex
	key solana.PrivateKey
	pub solana.PublicKey
}

// NewLocalSigner takes ownership of a 64-byte Solana private key.
func NewLocalSigner(key solana.PrivateKey) (*LocalSigner, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: expected %d bytes", ed25519.PrivateKeySize)
	}
	// the trailing half of a Solana key is the public key; make sure it belongs to the seed
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	defer clear(derived)
	if !derived.Equal(ed25519.PrivateKey(key)) {
		return nil, errors.New("private key does not match its public half")
	}

	return &LocalSigner{key: key, pub: key.PublicKey()}, nil
}

// UnlockSigner decrypts the keystore at filePath and returns a signer for it.
// password must be []byte for security (caller should zero it after use)
func UnlockSigner(filePath string, password []byte) (*LocalSigner, error) {
	cwtFile, walletData, err := DecryptWallet(filePath, password)
	if err != nil {
		return nil, err
	}

	key := make(solana.PrivateKey, len(walletData.PrivateKey))
	copy(key, walletData.PrivateKey)
	clear(walletData.PrivateKey)

	signer, err := NewLocalSigner(key)
	if err != nil {
		clear(key)
		return nil, err
	}
	if cwtFile.Address != "" && cwtFile.Address != signer.PublicKey().String() {
		signer.Wipe()
		return nil, errors.New("private key does not match wallet address")
	}
	return signer, nil
}

// PublicKey returns the signer's address
func (s *LocalSigner) PublicKey() solana.PublicKey {
	return s.pub
}

// SignTransaction adds this key's signature to tx. The key must be one of the
// transaction's required signers; other signatures are left untouched.
func (s *LocalSigner) SignTransaction(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return nil, ErrSignerWiped
	}
	if !isRequiredSigner(tx, s.pub) {
		return nil, fmt.Errorf("%s is not a signer of this transaction", s.pub)
	}

	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.pub) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

// Wipe zeroes the key. The signer is unusable afterwards.
func (s *LocalSigner) Wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.key)
	s.key = nil
}

func isRequiredSigner(tx *solana.Transaction, pub solana.PublicKey) bool {
	n := int(tx.Message.Header.NumRequiredSignatures)
	if n > len(tx.Message.AccountKeys) {
		n = len(tx.Message.AccountKeys)
	}
	for _, k := range tx.Message.AccountKeys[:n] {
		if k.Equals(pub) {
			return true
		}
	}
	return false
}
