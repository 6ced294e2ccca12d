package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test", "debug")
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcHandler func(method string, params json.RawMessage) (any, *rpcErrorBody)

// newRPCServer serves a minimal Solana JSON-RPC endpoint
func newRPCServer(t *testing.T, handle rpcHandler) *SolanaClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := handle(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return NewSolanaClient(srv.URL, WithReadRetries(0), WithConfirmInterval(10*time.Millisecond))
}

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 1}, "value": value}
}

func TestSolanaClient_GetBalance(t *testing.T) {
	c := newRPCServer(t, func(method string, _ json.RawMessage) (any, *rpcErrorBody) {
		assert.Equal(t, "getBalance", method)
		return withContext(2_000_000_000), nil
	})

	lamports, err := c.GetBalance(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), lamports)
}

func TestSolanaClient_GetTokenAccountBalance(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		c := newRPCServer(t, func(string, json.RawMessage) (any, *rpcErrorBody) {
			return withContext(map[string]any{"amount": "12500000", "decimals": 6, "uiAmountString": "12.5"}), nil
		})
		got, err := c.GetTokenAccountBalance(context.Background(), solana.NewWallet().PublicKey())
		require.NoError(t, err)
		assert.Equal(t, &TokenAmount{Amount: 12_500_000, Decimals: 6}, got)
	})

	t.Run("missing account maps to ErrAccountNotFound", func(t *testing.T) {
		c := newRPCServer(t, func(string, json.RawMessage) (any, *rpcErrorBody) {
			return nil, &rpcErrorBody{Code: -32602, Message: "Invalid param: could not find account"}
		})
		_, err := c.GetTokenAccountBalance(context.Background(), solana.NewWallet().PublicKey())
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("other rpc error is not a missing account", func(t *testing.T) {
		c := newRPCServer(t, func(string, json.RawMessage) (any, *rpcErrorBody) {
			return nil, &rpcErrorBody{Code: -32005, Message: "Node is unhealthy"}
		})
		_, err := c.GetTokenAccountBalance(context.Background(), solana.NewWallet().PublicKey())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrAccountNotFound))
	})
}

func TestSolanaClient_GetAccountInfo_Missing(t *testing.T) {
	c := newRPCServer(t, func(string, json.RawMessage) (any, *rpcErrorBody) {
		return withContext(nil), nil
	})

	info, err := c.GetAccountInfo(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSolanaClient_SendRawTransaction_PreflightRejection(t *testing.T) {
	c := newRPCServer(t, func(method string, _ json.RawMessage) (any, *rpcErrorBody) {
		assert.Equal(t, "sendTransaction", method)
		return nil, &rpcErrorBody{Code: -32002, Message: "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit."}
	})

	_, err := c.SendRawTransaction(context.Background(), []byte{1, 2, 3})
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit.", rej.Reason)
}

func TestSolanaClient_ConfirmTransaction(t *testing.T) {
	sig := solana.Signature{1}

	t.Run("confirmed after pending", func(t *testing.T) {
		var calls atomic.Int32
		c := newRPCServer(t, func(method string, _ json.RawMessage) (any, *rpcErrorBody) {
			assert.Equal(t, "getSignatureStatuses", method)
			if calls.Add(1) < 3 {
				return withContext([]any{nil}), nil
			}
			return withContext([]any{map[string]any{"slot": 10, "confirmations": 1, "err": nil, "confirmationStatus": "confirmed"}}), nil
		})

		require.NoError(t, c.ConfirmTransaction(context.Background(), sig, 0))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("on-chain error is a rejection", func(t *testing.T) {
		c := newRPCServer(t, func(string, json.RawMessage) (any, *rpcErrorBody) {
			return withContext([]any{map[string]any{
				"slot": 10, "err": map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 1}}}, "confirmationStatus": "processed",
			}}), nil
		})

		err := c.ConfirmTransaction(context.Background(), sig, 0)
		var rej *RejectionError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, `{"InstructionError":[0,{"Custom":1}]}`, rej.Reason)
	})

	t.Run("expired blockhash is a rejection", func(t *testing.T) {
		c := newRPCServer(t, func(method string, _ json.RawMessage) (any, *rpcErrorBody) {
			if method == "getBlockHeight" {
				return 500, nil
			}
			return withContext([]any{nil}), nil
		})

		err := c.ConfirmTransaction(context.Background(), sig, 100)
		assert.True(t, IsRejectionError(err))
	})

	t.Run("deadline gives ErrConfirmTimeout", func(t *testing.T) {
		c := newRPCServer(t, func(string, json.RawMessage) (any, *rpcErrorBody) {
			return withContext([]any{nil}), nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		err := c.ConfirmTransaction(ctx, sig, 0)
		assert.ErrorIs(t, err, ErrConfirmTimeout)
	})
}

func TestIsATANotFoundError(t *testing.T) {
	assert.True(t, isATANotFoundError(errors.New("Invalid param: could not find account")))
	assert.False(t, isATANotFoundError(errors.New("connection refused")))
	assert.False(t, isATANotFoundError(nil))
}
