package model

import "github.com/gagliardetto/solana-go"

// AssetDescriptor is static metadata for an asset on one network.
// The native asset (SOL) has Native set and the wrapped-SOL mint as Mint.
type AssetDescriptor struct {
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Mint     solana.PublicKey `json:"mint"`
	Decimals uint8            `json:"decimals"`
	Native   bool             `json:"native"`
}
