// Command keygen creates an encrypted .cwt keystore without starting the daemon.
// Usage: go run ./cmd/keygen -out wallet.cwt -network devnet
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/goldium-wallet/internal/config"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/solana"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	out := flag.String("out", "wallet.cwt", "keystore path (.cwt)")
	network := flag.String("network", config.NetworkMainnet, "mainnet-beta, devnet or testnet")
	flag.Parse()

	logger.InitLogger("development", "info")
	defer func() { _ = logger.Sync() }()

	if _, ok := config.DefaultRPCURL(*network); !ok {
		logger.Fatal("unsupported network", zap.String("network", *network))
	}

	password, err := readNewPassword()
	if err != nil {
		logger.Fatal("failed to read password", zap.Error(err))
	}
	defer clear(password)

	address, err := solana.GenerateWallet(*out, *network, password)
	if err != nil {
		logger.Fatal("failed to generate wallet", zap.String("path", *out), zap.Error(err))
	}
	logger.Info("wallet generated",
		zap.String("address", address),
		zap.String("network", *network),
		zap.String("path", *out),
	)
}

// readNewPassword prompts twice without echo and checks both entries match
func readNewPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "New wallet password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	defer clear(second)
	if err != nil {
		clear(first)
		return nil, err
	}

	if len(first) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	if !bytes.Equal(first, second) {
		clear(first)
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}
