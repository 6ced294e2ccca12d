package model

import (
	"errors"
	"fmt"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorKind classifies caller-facing wallet failures.
type ErrorKind string

const (
	KindWalletNotConnected      ErrorKind = "WALLET_NOT_CONNECTED"
	KindInvalidDestination      ErrorKind = "INVALID_DESTINATION"
	KindInvalidAmount           ErrorKind = "INVALID_AMOUNT"
	KindUnsupportedAsset        ErrorKind = "UNSUPPORTED_ASSET"
	KindInsufficientBalance     ErrorKind = "INSUFFICIENT_BALANCE"
	KindSenderHasNoAssetAccount ErrorKind = "SENDER_HAS_NO_ASSET_ACCOUNT"
	KindLedgerRejected          ErrorKind = "LEDGER_REJECTED"
	KindNetworkError            ErrorKind = "NETWORK_ERROR"
	KindQuoteUnavailable        ErrorKind = "QUOTE_UNAVAILABLE"
	KindSwapFailed              ErrorKind = "SWAP_FAILED"
)

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrWalletNotConnected      = &WalletError{Kind: KindWalletNotConnected}
	ErrInvalidDestination      = &WalletError{Kind: KindInvalidDestination}
	ErrInvalidAmount           = &WalletError{Kind: KindInvalidAmount}
	ErrUnsupportedAsset        = &WalletError{Kind: KindUnsupportedAsset}
	ErrInsufficientBalance     = &WalletError{Kind: KindInsufficientBalance}
	ErrSenderHasNoAssetAccount = &WalletError{Kind: KindSenderHasNoAssetAccount}
	ErrLedgerRejected          = &WalletError{Kind: KindLedgerRejected}
	ErrNetworkError            = &WalletError{Kind: KindNetworkError}
	ErrQuoteUnavailable        = &WalletError{Kind: KindQuoteUnavailable}
	ErrSwapFailed              = &WalletError{Kind: KindSwapFailed}
)

// WalletError is returned by the transfer and swap operations.
// Reason carries the remote rejection text verbatim when there is one.
type WalletError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

// NewWalletError creates a WalletError of the given kind
func NewWalletError(kind ErrorKind, reason string, err error) *WalletError {
	return &WalletError{Kind: kind, Reason: reason, Err: err}
}

func (e *WalletError) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a WalletError of the same kind.
func (e *WalletError) Is(target error) bool {
	t, ok := target.(*WalletError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of a WalletError anywhere in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

var userMessages = map[ErrorKind]string{
	KindWalletNotConnected:      "Please connect your wallet first.",
	KindInvalidDestination:      "The recipient address is not a valid Solana address.",
	KindInvalidAmount:           "Please enter an amount greater than zero.",
	KindUnsupportedAsset:        "This token is not supported on the selected network.",
	KindInsufficientBalance:     "Insufficient balance for this transaction.",
	KindSenderHasNoAssetAccount: "You don't hold this token yet, there is nothing to send.",
	KindLedgerRejected:          "The transaction was rejected by the network.",
	KindNetworkError:            "Network error. Please check your connection and try again.",
	KindQuoteUnavailable:        "No swap route is available right now. Please try again.",
	KindSwapFailed:              "The swap could not be completed. Please try again.",
}

// UserMessage returns a short human-readable message for err.
// Ledger rejections are passed through verbatim when the reason is known.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var we *WalletError
	if !errors.As(err, &we) {
		return "Something went wrong. Please try again."
	}
	if we.Kind == KindLedgerRejected && we.Reason != "" {
		return we.Reason
	}
	if msg, ok := userMessages[we.Kind]; ok {
		return msg
	}
	return "Something went wrong. Please try again."
}
