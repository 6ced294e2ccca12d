package solana

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/crypto"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 256

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("keystore %s is not empty", e.Path)
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var fe *FileExistsError
	return errors.As(err, &fe)
}

// GenerateWallet creates a new keypair and saves it encrypted to a .cwt keystore.
// Returns the generated public address on success.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath, network string, password []byte) (address string, err error) {
	wallet := solana.NewWallet()
	defer clear(wallet.PrivateKey)

	address = wallet.PublicKey().String()

	qrCode, err := addressQRCode(address)
	if err != nil {
		return "", err
	}

	walletData := &model.WalletData{
		PrivateKey: wallet.PrivateKey,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(filePath, network, address, qrCode, walletData, password); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", &FileExistsError{Path: filePath}
		}
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	return address, nil
}

// Generate creates the keystore at the configured path for the configured network
func (s *Service) Generate(password []byte) (*model.GenerateResponse, error) {
	address, err := GenerateWallet(s.keystorePath, s.Network(), password)
	if err != nil {
		return nil, err
	}
	logger.Info("wallet generated", zap.String("address", address), zap.String("network", s.Network()))
	return &model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully",
		Address: address,
		Network: s.Network(),
	}, nil
}

// addressQRCode renders the address as a base64 PNG
func addressQRCode(address string) (string, error) {
	png, err := qrcode.Encode(address, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
