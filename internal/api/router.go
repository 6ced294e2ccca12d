package api

import (
	"net/http"

	_ "github.com/AlexZinkM/goldium-wallet/docs"
	"github.com/AlexZinkM/goldium-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(h *handler.WalletHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/connect", h.Connect)
	mux.HandleFunc("/wallet/disconnect", h.Disconnect)
	mux.HandleFunc("/wallet/status", h.Status)
	mux.HandleFunc("/wallet/generate", h.Generate)
	mux.HandleFunc("/wallet/balances", h.GetBalance)
	mux.HandleFunc("/wallet/balances/refresh", h.RefreshBalance)
	mux.HandleFunc("/wallet/transfer", h.Transfer)
	mux.HandleFunc("/wallet/transactions", h.TransactionHistory)
	mux.HandleFunc("/notifications", h.Notifications)

	// Swap endpoints
	mux.HandleFunc("/swap/quote", h.Quote)
	mux.HandleFunc("/swap/execute", h.ExecuteSwap)
	mux.HandleFunc("/swap/settings", h.SwapSettings)
	mux.HandleFunc("/swap/draft", h.Draft)

	return mux
}
