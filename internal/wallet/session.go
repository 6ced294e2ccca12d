package wallet

import (
	"context"
	"sync"

	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// BalanceSync is the lifecycle side of the balance synchronizer
type BalanceSync interface {
	Connect(ctx context.Context, owner solana.PublicKey) model.BalanceSnapshot
	Disconnect()
}

// wiper is implemented by signers holding key material in memory
type wiper interface {
	Wipe()
}

// Session holds the connected signing account.
type Session struct {
	balances BalanceSync

	mu     sync.RWMutex
	signer client.Signer
}

// NewSession creates a disconnected session
func NewSession(balances BalanceSync) *Session {
	return &Session{balances: balances}
}

// Connect makes signer the active account and loads its balances.
// A different previously connected account is disconnected first.
func (s *Session) Connect(ctx context.Context, signer client.Signer) model.BalanceSnapshot {
	s.mu.Lock()
	prev := s.signer
	if prev != nil && !prev.PublicKey().Equals(signer.PublicKey()) {
		s.releaseLocked()
		prev = nil
	}
	if prev == nil {
		s.signer = signer
	} else if prev != signer {
		// same account, keep the signer already in use
		if w, ok := signer.(wiper); ok {
			w.Wipe()
		}
	}
	owner := s.signer.PublicKey()
	s.mu.Unlock()

	logger.Info("wallet connected", zap.String("address", owner.String()))
	return s.balances.Connect(ctx, owner)
}

// Disconnect drops the active account and its balances. Safe to call more than once.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signer == nil {
		return
	}
	logger.Info("wallet disconnected", zap.String("address", s.signer.PublicKey().String()))
	s.releaseLocked()
}

func (s *Session) releaseLocked() {
	s.balances.Disconnect()
	if w, ok := s.signer.(wiper); ok {
		w.Wipe()
	}
	s.signer = nil
}

// Current returns the active signer or nil
func (s *Session) Current() client.Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signer
}

// Address returns the active account and whether one is connected
func (s *Session) Address() (solana.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signer == nil {
		return solana.PublicKey{}, false
	}
	return s.signer.PublicKey(), true
}
