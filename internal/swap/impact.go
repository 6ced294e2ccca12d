package swap

import "fmt"

// PriceImpactBucket renders a price impact percentage for display
func PriceImpactBucket(pct float64) string {
	switch {
	case pct < 0.01:
		return "<0.01%"
	case pct < 0.1:
		return "<0.1%"
	case pct < 1:
		return fmt.Sprintf("~%.2f%%", pct)
	default:
		return fmt.Sprintf("%.2f%%", pct)
	}
}

// RecommendedSlippageBps derives a slippage tolerance from the price impact
func RecommendedSlippageBps(pct float64) uint16 {
	switch {
	case pct > 5:
		return 500
	case pct > 3:
		return 300
	case pct > 1:
		return 150
	default:
		return 50
	}
}

// estimateImpact approximates the impact when the aggregator does not report
// one: the relative gap between the market price and the worst execution
// price allowed by the slippage tolerance.
func estimateImpact(slippageBps uint16) float64 {
	s := float64(slippageBps) / 100
	if s >= 100 {
		return 100
	}
	return (1/(1-s/100) - 1) * 100
}
