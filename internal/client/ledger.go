package client

//go:generate mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrAccountNotFound is returned when a token sub-account does not exist on the ledger
	ErrAccountNotFound = errors.New("account not found")
	// ErrConfirmTimeout is returned when a signature was not confirmed before the deadline
	ErrConfirmTimeout = errors.New("transaction was not confirmed in time")
)

// RejectionError is a ledger-side refusal of a transaction: a failed preflight,
// an on-chain instruction error or an expired blockhash. Reason is kept verbatim.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Reason)
}

// IsRejectionError checks if err is a RejectionError
func IsRejectionError(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}

// TokenAmount is a raw token balance
type TokenAmount struct {
	Amount   uint64
	Decimals uint8
}

// AccountInfo is the subset of account state the wallet needs
type AccountInfo struct {
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// Blockhash is a recent blockhash and the last block height at which it is valid
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Ledger is the remote ledger connection
type Ledger interface {
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	// GetTokenAccountBalance returns ErrAccountNotFound when the sub-account does not exist.
	GetTokenAccountBalance(ctx context.Context, subAccount solana.PublicKey) (*TokenAmount, error)
	// GetAccountInfo returns nil, nil when the account does not exist.
	GetAccountInfo(ctx context.Context, address solana.PublicKey) (*AccountInfo, error)
	SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
	// ConfirmTransaction blocks until the signature is confirmed, rejected or ctx is done.
	ConfirmTransaction(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64) error
	GetLatestBlockhash(ctx context.Context) (*Blockhash, error)
}

// Signer is the signing capability of the connected wallet.
// Implementations never expose key material.
type Signer interface {
	PublicKey() solana.PublicKey
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// QuoteParams are the inputs of an aggregator quote request
type QuoteParams struct {
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	Amount      uint64
	SlippageBps uint16
}

// SwapParams are the inputs of an aggregator swap-transaction request
type SwapParams struct {
	Quote                    *model.Quote
	UserPublicKey            solana.PublicKey
	PriorityFeeMicroLamports uint64
}

// SwapTransaction is a prebuilt unsigned swap transaction
type SwapTransaction struct {
	Transaction          string // base64
	LastValidBlockHeight uint64
}

// Aggregator is the swap routing service
type Aggregator interface {
	Quote(ctx context.Context, params QuoteParams) (*model.Quote, error)
	SwapTransaction(ctx context.Context, params SwapParams) (*SwapTransaction, error)
}
