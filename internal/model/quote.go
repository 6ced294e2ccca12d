package model

import (
	"encoding/json"
	"time"
)

// RouteStep is one hop of an aggregator route
type RouteStep struct {
	Label      string `json:"label"`
	AmmKey     string `json:"ammKey"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   uint64 `json:"inAmount"`
	OutAmount  uint64 `json:"outAmount"`
	Percent    int    `json:"percent"`
}

// Quote is an aggregator conversion plan. Amounts are in smallest units.
// Raw keeps the aggregator response verbatim; the swap endpoint wants it back unchanged.
type Quote struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             uint64          `json:"inAmount"`
	OutAmount            uint64          `json:"outAmount"`
	OtherAmountThreshold uint64          `json:"otherAmountThreshold"`
	SlippageBps          uint16          `json:"slippageBps"`
	PriceImpactPct       float64         `json:"priceImpactPct"`
	PriceImpactReported  bool            `json:"priceImpactReported"`
	Routes               []RouteStep     `json:"routes"`
	Raw                  json.RawMessage `json:"-"`
}

// QuoteResult is a quote with the derived display fields
type QuoteResult struct {
	Quote                  *Quote    `json:"quote"`
	InputSymbol            string    `json:"inputSymbol"`
	OutputSymbol           string    `json:"outputSymbol"`
	InputAmount            float64   `json:"inputAmount"`
	OutputAmount           float64   `json:"outputAmount"`
	MinimumReceived        float64   `json:"minimumReceived"`
	ImpactBucket           string    `json:"priceImpact"`
	RecommendedSlippageBps uint16    `json:"recommendedSlippageBps"`
	SlippageBps            uint16    `json:"slippageBps"`
	FetchedAt              time.Time `json:"fetchedAt"`
}

// SwapSettings is the slippage configuration of the swap client
type SwapSettings struct {
	SlippageBps  uint16 `json:"slippageBps"`
	AutoSlippage bool   `json:"autoSlippage"`
}

// SwapRequest represents request for POST /swap/execute
type SwapRequest struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Amount      string  `json:"amount"`
	SlippageBps *uint16 `json:"slippageBps,omitempty"`
}

// SwapResponse represents response for POST /swap/execute
type SwapResponse struct {
	TxID   string         `json:"txId"`
	Quote  *QuoteResult   `json:"quote"`
	Record TransferRecord `json:"record"`
}

// QuoteDraft is the debounced live quote for the swap form
type QuoteDraft struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Amount      float64      `json:"amount"`
	SlippageBps uint16       `json:"slippageBps,omitempty"`
	Pending     bool         `json:"pending"`
	Result      *QuoteResult `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
	Code        string       `json:"code,omitempty"`
}

// QuoteDraftRequest represents request for POST /swap/draft
type QuoteDraftRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount"`
	SlippageBps uint16 `json:"slippageBps,omitempty"`
}
