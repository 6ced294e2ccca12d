package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Submission is a transaction ready to be signed by the connected wallet
type Submission struct {
	Tx                   *solana.Transaction
	LastValidBlockHeight uint64
	ConfirmTimeout       time.Duration
}

// Submit signs, sends and confirms a transaction. The signature is returned
// as soon as it is known, so a failed confirmation still reports it.
// Errors are *model.WalletError of kind LedgerRejected or NetworkError.
func Submit(ctx context.Context, ledger client.Ledger, signer client.Signer, sub Submission) (solana.Signature, error) {
	signed, err := signer.SignTransaction(ctx, sub.Tx)
	if err != nil {
		return solana.Signature{}, model.NewWalletError(model.KindLedgerRejected, "signing was refused", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return solana.Signature{}, model.NewWalletError(model.KindLedgerRejected, "transaction could not be encoded", err)
	}

	sig, err := ledger.SendRawTransaction(ctx, raw)
	if err != nil {
		return solana.Signature{}, LedgerError(err)
	}
	logger.Info("transaction sent", zap.String("signature", sig.String()))

	confirmCtx, cancel := context.WithTimeout(ctx, sub.ConfirmTimeout)
	defer cancel()
	if err := ledger.ConfirmTransaction(confirmCtx, sig, sub.LastValidBlockHeight); err != nil {
		return sig, LedgerError(err)
	}

	logger.Info("transaction confirmed", zap.String("signature", sig.String()))
	return sig, nil
}

// LedgerError maps a ledger failure onto the wallet error taxonomy.
// Rejections keep the ledger's reason; everything else is a network error.
func LedgerError(err error) *model.WalletError {
	var we *model.WalletError
	if errors.As(err, &we) {
		return we
	}
	var re *client.RejectionError
	if errors.As(err, &re) {
		return model.NewWalletError(model.KindLedgerRejected, re.Reason, err)
	}
	if errors.Is(err, client.ErrConfirmTimeout) {
		return model.NewWalletError(model.KindNetworkError, "transaction was not confirmed in time, check its status later", err)
	}
	return model.NewWalletError(model.KindNetworkError, "", err)
}

// ExplorerURL links a signature on Solscan for the given network
func ExplorerURL(sig solana.Signature, network string) string {
	url := fmt.Sprintf("https://solscan.io/tx/%s", sig)
	if network != "" && network != "mainnet-beta" {
		url += "?cluster=" + network
	}
	return url
}
