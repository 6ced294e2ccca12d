package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletError_IsMatchesKind(t *testing.T) {
	err := NewWalletError(KindLedgerRejected, "custom program error: 0x1", nil)
	wrapped := fmt.Errorf("failed to send: %w", err)

	assert.True(t, errors.Is(wrapped, ErrLedgerRejected))
	assert.False(t, errors.Is(wrapped, ErrNetworkError))
	assert.Equal(t, KindLedgerRejected, KindOf(wrapped))
}

func TestWalletError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewWalletError(KindNetworkError, "", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NETWORK_ERROR: connection refused", err.Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "rejection reason passes through", err: NewWalletError(KindLedgerRejected, "Blockhash not found", nil), want: "Blockhash not found"},
		{name: "rejection without reason", err: ErrLedgerRejected, want: userMessages[KindLedgerRejected]},
		{name: "insufficient balance", err: ErrInsufficientBalance, want: "Insufficient balance for this transaction."},
		{name: "plain error", err: errors.New("boom"), want: "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestUserMessage_DistinctPerKind(t *testing.T) {
	seen := make(map[string]ErrorKind)
	for kind, msg := range userMessages {
		if other, ok := seen[msg]; ok {
			t.Fatalf("kinds %s and %s share message %q", kind, other, msg)
		}
		seen[msg] = kind
	}
}

func TestLogRequest_Validate(t *testing.T) {
	bad := TransferKind("refund")
	lo, hi := 5.0, 1.0
	assert.Error(t, (&LogRequest{Kind: &bad}).Validate())
	assert.Error(t, (&LogRequest{MinAmount: &lo, MaxAmount: &hi}).Validate())
	assert.NoError(t, (&LogRequest{}).Validate())
}
