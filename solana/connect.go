package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/goldium-wallet/internal/crypto"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"go.uber.org/zap"
)

// Connect unlocks the keystore and makes it the signing account.
// The initial balance refresh runs before Connect returns.
// password must be []byte for security (caller should zero it after use)
func (s *Service) Connect(ctx context.Context, password []byte) (*model.ConnectResponse, error) {
	signer, err := crypto.UnlockSigner(s.keystorePath, password)
	if err != nil {
		s.notifier.Notify(refusal("Connection failed", unlockMessage(err)))
		return nil, fmt.Errorf("failed to unlock wallet: %w", err)
	}

	snap := s.session.Connect(ctx, signer)
	if snap.Error != "" {
		logger.Warn("initial balance refresh failed", zap.String("error", snap.Error))
	}

	return s.Status(), nil
}

// Disconnect releases the signing account. Disconnecting twice is a no-op.
func (s *Service) Disconnect() *model.ConnectResponse {
	s.session.Disconnect()
	return s.Status()
}

// Status reports whether a wallet is connected
func (s *Service) Status() *model.ConnectResponse {
	resp := &model.ConnectResponse{Network: s.Network()}
	if addr, ok := s.session.Address(); ok {
		resp.Connected = true
		resp.Address = addr.String()
		return resp
	}
	// readable without the password
	if addr, err := crypto.ReadWalletAddress(s.keystorePath); err == nil {
		resp.Keystore = addr
	}
	return resp
}

func unlockMessage(err error) string {
	switch {
	case errors.Is(err, crypto.ErrInvalidPassword):
		return "Wrong wallet password."
	case errors.Is(err, crypto.ErrWalletFileMissing):
		return "No wallet file found. Generate one first."
	default:
		return "The wallet file could not be opened."
	}
}
