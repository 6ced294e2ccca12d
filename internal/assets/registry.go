package assets

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

const (
	SymbolSOL  = "SOL"
	SymbolGOLD = "GOLD"
	SymbolUSDC = "USDC"
	SymbolBONK = "BONK"
)

var (
	solAsset = model.AssetDescriptor{Symbol: SymbolSOL, Name: "Solana", Mint: solana.SolMint, Decimals: 9, Native: true}

	goldAsset = model.AssetDescriptor{
		Symbol:   SymbolGOLD,
		Name:     "Goldium",
		Mint:     solana.MustPublicKeyFromBase58("APkBg8kzMBpVKxvgrw67vkd5KuGWqSu2GVb19eK4pump"),
		Decimals: 6,
	}
	usdcAsset = model.AssetDescriptor{
		Symbol:   SymbolUSDC,
		Name:     "USD Coin",
		Mint:     solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"), // mainnet only
		Decimals: 6,
	}
	bonkAsset = model.AssetDescriptor{
		Symbol:   SymbolBONK,
		Name:     "Bonk",
		Mint:     solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"),
		Decimals: 5,
	}
)

var defaults = map[string][]model.AssetDescriptor{
	"mainnet-beta": {solAsset, goldAsset, usdcAsset, bonkAsset},
	"devnet":       {solAsset, goldAsset},
	"testnet":      {solAsset, goldAsset},
}

// Registry is the read-only asset allow-list of one network.
// The native asset is always first.
type Registry struct {
	network  string
	assets   []model.AssetDescriptor
	bySymbol map[string]model.AssetDescriptor
}

// Default returns the built-in allow-list for network
func Default(network string) (*Registry, error) {
	list, ok := defaults[network]
	if !ok {
		return nil, fmt.Errorf("no asset list for network %q", network)
	}
	return newRegistry(network, list)
}

// newRegistry builds a registry from an explicit list. The native asset is prepended when missing.
func newRegistry(network string, list []model.AssetDescriptor) (*Registry, error) {
	r := &Registry{
		network:  network,
		assets:   make([]model.AssetDescriptor, 0, len(list)+1),
		bySymbol: make(map[string]model.AssetDescriptor, len(list)+1),
	}

	hasNative := false
	for _, a := range list {
		if a.Native {
			hasNative = true
		}
	}
	if !hasNative {
		list = append([]model.AssetDescriptor{solAsset}, list...)
	}

	for _, a := range list {
		key := strings.ToUpper(a.Symbol)
		if key == "" {
			return nil, fmt.Errorf("asset with mint %s has no symbol", a.Mint)
		}
		if _, dup := r.bySymbol[key]; dup {
			return nil, fmt.Errorf("duplicate asset symbol %s", key)
		}
		a.Symbol = key
		r.bySymbol[key] = a
		if a.Native {
			r.assets = append([]model.AssetDescriptor{a}, r.assets...)
		} else {
			r.assets = append(r.assets, a)
		}
	}
	return r, nil
}

// Network returns the network this allow-list belongs to
func (r *Registry) Network() string {
	return r.network
}

// All returns every allow-listed asset, native first
func (r *Registry) All() []model.AssetDescriptor {
	out := make([]model.AssetDescriptor, len(r.assets))
	copy(out, r.assets)
	return out
}

// Native returns the native asset descriptor
func (r *Registry) Native() model.AssetDescriptor {
	return r.assets[0]
}

// Tokens returns the fungible (non-native) assets
func (r *Registry) Tokens() []model.AssetDescriptor {
	out := make([]model.AssetDescriptor, 0, len(r.assets)-1)
	for _, a := range r.assets {
		if !a.Native {
			out = append(out, a)
		}
	}
	return out
}

// Lookup finds an asset by symbol, case-insensitively
func (r *Registry) Lookup(symbol string) (model.AssetDescriptor, bool) {
	a, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return a, ok
}

// LookupMint finds an asset by mint address
func (r *Registry) LookupMint(mint solana.PublicKey) (model.AssetDescriptor, bool) {
	for _, a := range r.assets {
		if a.Mint.Equals(mint) {
			return a, true
		}
	}
	return model.AssetDescriptor{}, false
}

type fileAsset struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Mint     string `yaml:"mint"`
	Decimals uint8  `yaml:"decimals"`
}

type fileLayout struct {
	Networks map[string][]fileAsset `yaml:"networks"`
}

// Load returns the allow-list for network. When path is empty the built-in list is used;
// otherwise the tokens listed for network in the YAML file replace the built-in tokens.
//
//	networks:
//	  devnet:
//	    - symbol: GOLD
//	      name: Goldium
//	      mint: APkBg8kzMBpVKxvgrw67vkd5KuGWqSu2GVb19eK4pump
//	      decimals: 6
func Load(network, path string) (*Registry, error) {
	if path == "" {
		return Default(network)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets file: %w", err)
	}

	var layout fileLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse assets file: %w", err)
	}

	entries, ok := layout.Networks[network]
	if !ok {
		return Default(network)
	}

	list := make([]model.AssetDescriptor, 0, len(entries))
	for _, e := range entries {
		if strings.EqualFold(e.Symbol, SymbolSOL) {
			continue
		}
		mint, err := solana.PublicKeyFromBase58(e.Mint)
		if err != nil {
			return nil, fmt.Errorf("invalid mint for %s: %w", e.Symbol, err)
		}
		list = append(list, model.AssetDescriptor{
			Symbol:   e.Symbol,
			Name:     e.Name,
			Mint:     mint,
			Decimals: e.Decimals,
		})
	}
	return newRegistry(network, list)
}
