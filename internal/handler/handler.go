package handler

import (
	"context"

	"github.com/AlexZinkM/goldium-wallet/internal/config"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
)

// WalletService is the use-case layer the handlers call
type WalletService interface {
	Connect(ctx context.Context, password []byte) (*model.ConnectResponse, error)
	Disconnect() *model.ConnectResponse
	Status() *model.ConnectResponse
	Generate(password []byte) (*model.GenerateResponse, error)
	GetBalance(ctx context.Context, withPrices bool) (*model.BalanceResponse, error)
	RefreshBalance(ctx context.Context) (*model.BalanceResponse, error)
	Pay(ctx context.Context, req model.PayRequest) (*model.PayResponse, error)
	GetTransactions(req *model.LogRequest) (*model.LogResponse, error)
	Quote(ctx context.Context, from, to, amount string, slippageBps uint16) (*model.QuoteResult, error)
	Swap(ctx context.Context, req model.SwapRequest) (*model.SwapResponse, error)
	SwapSettings() model.SwapSettings
	UpdateSwapSettings(in model.SwapSettings) (model.SwapSettings, error)
	UpdateDraft(req model.QuoteDraftRequest) model.QuoteDraft
	Draft() model.QuoteDraft
	Notifications() []model.Notification
}

// PasswordSource returns a copy of the keystore password. The caller zeroes it.
type PasswordSource func() ([]byte, error)

// WalletHandler serves the wallet and swap endpoints
type WalletHandler struct {
	svc      WalletService
	password PasswordSource
}

// NewWalletHandler creates a handler. A nil password source reads the password prompted at startup.
func NewWalletHandler(svc WalletService, password PasswordSource) *WalletHandler {
	if password == nil {
		password = config.GetSolanaPasswordBytes
	}
	return &WalletHandler{svc: svc, password: password}
}
