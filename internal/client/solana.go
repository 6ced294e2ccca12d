package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// JSON-RPC error codes that mean the node refused the transaction itself
const (
	rpcCodeInvalidParams            = -32602
	rpcCodePreflightFailure         = -32002
	rpcCodeSignatureVerifyFailure   = -32003
	defaultReadRetries              = 2
	defaultConfirmInitialInterval   = 400 * time.Millisecond
	defaultConfirmMaxInterval       = 2 * time.Second
	defaultReadRetryInitialInterval = 200 * time.Millisecond
)

// SolanaClient is a client for working with Solana RPC. It implements Ledger.
type SolanaClient struct {
	rpcClient       *rpc.Client
	rpcURL          string
	commitment      rpc.CommitmentType
	readRetries     uint64
	confirmInterval time.Duration
}

// SolanaOption configures a SolanaClient
type SolanaOption func(*SolanaClient)

// WithReadRetries sets how many times idempotent reads are retried on transport errors
func WithReadRetries(n uint64) SolanaOption {
	return func(c *SolanaClient) {
		c.readRetries = n
	}
}

// WithConfirmInterval sets the initial signature status polling interval
func WithConfirmInterval(d time.Duration) SolanaOption {
	return func(c *SolanaClient) {
		c.confirmInterval = d
	}
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint.
func NewSolanaClient(rpcURL string, opts ...SolanaOption) *SolanaClient {
	c := &SolanaClient{
		rpcClient:       rpc.New(rpcURL),
		rpcURL:          rpcURL,
		commitment:      rpc.CommitmentConfirmed,
		readRetries:     defaultReadRetries,
		confirmInterval: defaultConfirmInitialInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBalance gets the native balance in lamports
func (c *SolanaClient) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	var lamports uint64
	err := c.retryRead(ctx, "getBalance", func() error {
		balance, err := c.rpcClient.GetBalance(ctx, account, c.commitment)
		if err != nil {
			return err
		}
		lamports = balance.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return lamports, nil
}

// GetTokenAccountBalance gets the raw balance of a token account
func (c *SolanaClient) GetTokenAccountBalance(ctx context.Context, subAccount solana.PublicKey) (*TokenAmount, error) {
	var out *TokenAmount
	err := c.retryRead(ctx, "getTokenAccountBalance", func() error {
		balance, err := c.rpcClient.GetTokenAccountBalance(ctx, subAccount, c.commitment)
		if err != nil {
			if isATANotFoundError(err) {
				return backoff.Permanent(ErrAccountNotFound)
			}
			return err
		}

		if balance.Value == nil {
			out = &TokenAmount{}
			return nil
		}

		amount, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse token balance amount: %w", err))
		}
		out = &TokenAmount{Amount: amount, Decimals: balance.Value.Decimals}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, fmt.Errorf("token account %s: %w", subAccount, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get token account balance: %w", err)
	}
	return out, nil
}

// GetAccountInfo gets account state, or nil when the account does not exist
func (c *SolanaClient) GetAccountInfo(ctx context.Context, address solana.PublicKey) (*AccountInfo, error) {
	var out *AccountInfo
	err := c.retryRead(ctx, "getAccountInfo", func() error {
		resp, err := c.rpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) || isATANotFoundError(err) {
				out = nil
				return nil
			}
			return err
		}
		if resp == nil || resp.Value == nil {
			out = nil
			return nil
		}

		info := &AccountInfo{
			Owner:    resp.Value.Owner,
			Lamports: resp.Value.Lamports,
		}
		if resp.Value.Data != nil {
			info.Data = resp.Value.Data.GetBinary()
		}
		out = info
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}
	return out, nil
}

// GetLatestBlockhash gets a recent blockhash for building transactions
func (c *SolanaClient) GetLatestBlockhash(ctx context.Context) (*Blockhash, error) {
	var out *Blockhash
	err := c.retryRead(ctx, "getLatestBlockhash", func() error {
		recent, err := c.rpcClient.GetLatestBlockhash(ctx, c.commitment)
		if err != nil {
			return err
		}
		if recent == nil || recent.Value == nil {
			return errors.New("empty blockhash response")
		}
		out = &Blockhash{
			Hash:                 recent.Value.Blockhash,
			LastValidBlockHeight: recent.Value.LastValidBlockHeight,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	return out, nil
}

// SendRawTransaction submits a signed transaction with preflight checks enabled.
// Sends are not retried here: a retry could land the same transfer twice.
func (c *SolanaClient) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	sig, err := c.rpcClient.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		SkipPreflight:       false, // Transaction validation before node
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			return solana.Signature{}, &RejectionError{Reason: reason}
		}
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

var errStillPending = errors.New("transaction still pending")

// ConfirmTransaction polls the signature status until it reaches confirmed commitment.
// It stops with a RejectionError when the transaction failed on chain or its blockhash
// expired, and with ErrConfirmTimeout when ctx is done first.
func (c *SolanaClient) ConfirmTransaction(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.confirmInterval
	b.MaxInterval = defaultConfirmMaxInterval
	b.MaxElapsedTime = 0 // bounded by ctx

	op := func() error {
		resp, err := c.rpcClient.GetSignatureStatuses(ctx, false, sig)
		if err != nil && !errors.Is(err, rpc.ErrNotFound) {
			logger.Debug("signature status lookup failed", zap.String("signature", sig.String()), zap.Error(err))
			return err
		}

		if resp != nil && len(resp.Value) > 0 && resp.Value[0] != nil {
			status := resp.Value[0]
			if status.Err != nil {
				return backoff.Permanent(&RejectionError{Reason: formatTxError(status.Err)})
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		if lastValidBlockHeight > 0 {
			height, err := c.rpcClient.GetBlockHeight(ctx, c.commitment)
			if err == nil && height > lastValidBlockHeight {
				return backoff.Permanent(&RejectionError{Reason: "block height exceeded: transaction expired before confirmation"})
			}
		}
		return errStillPending
	}

	err := backoff.Retry(op, backoff.WithContext(b, ctx))
	switch {
	case err == nil:
		return nil
	case IsRejectionError(err):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %s", ErrConfirmTimeout, sig)
	default:
		return fmt.Errorf("failed to confirm transaction: %w", err)
	}
}

// retryRead runs an idempotent RPC read with exponential backoff.
// JSON-RPC errors are answers from the node and are not retried.
func (c *SolanaClient) retryRead(ctx context.Context, method string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultReadRetryInitialInterval

	wrapped := func() error {
		err := op()
		var rpcErr *jsonrpc.RPCError
		if err != nil && errors.As(err, &rpcErr) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("solana rpc read failed, retrying",
			zap.String("method", method),
			zap.String("rpc", c.rpcURL),
			zap.Duration("next", next),
			zap.Error(err))
	}
	return backoff.RetryNotify(wrapped, backoff.WithContext(backoff.WithMaxRetries(b, c.readRetries), ctx), notify)
}

// rejectionReason extracts the node's message when it refused the transaction itself
func rejectionReason(err error) (string, bool) {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return "", false
	}
	switch rpcErr.Code {
	case rpcCodePreflightFailure, rpcCodeSignatureVerifyFailure, rpcCodeInvalidParams:
		return rpcErr.Message, true
	}
	return "", false
}

func formatTxError(txErr interface{}) string {
	if s, ok := txErr.(string); ok {
		return s
	}
	b, err := json.Marshal(txErr)
	if err != nil {
		return fmt.Sprintf("%v", txErr)
	}
	return string(b)
}

// isATANotFoundError checks if error indicates that ATA does not exist
func isATANotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "could not find account") ||
		strings.Contains(errStr, "not found")
}
