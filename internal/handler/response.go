package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/goldium-wallet/internal/crypto"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"
	"github.com/AlexZinkM/goldium-wallet/solana"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// writeServiceError maps err to a status code and a caller-facing body
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := model.ErrorResponse{Error: err.Error()}
	if kind := model.KindOf(err); kind != "" {
		resp.Error = model.UserMessage(err)
		resp.Code = string(kind)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, solana.ErrOperationPending):
		return http.StatusConflict
	case solana.IsFileExistsError(err):
		return http.StatusConflict
	case errors.Is(err, crypto.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, crypto.ErrWalletFileMissing):
		return http.StatusNotFound
	}

	switch model.KindOf(err) {
	case model.KindWalletNotConnected:
		return http.StatusConflict
	case model.KindInvalidDestination, model.KindInvalidAmount, model.KindUnsupportedAsset:
		return http.StatusBadRequest
	case model.KindInsufficientBalance, model.KindSenderHasNoAssetAccount:
		return http.StatusUnprocessableEntity
	case model.KindLedgerRejected, model.KindNetworkError, model.KindQuoteUnavailable, model.KindSwapFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
