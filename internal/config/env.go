package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Supported networks
const (
	NetworkMainnet = "mainnet-beta"
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
)

var defaultRPCURLs = map[string]string{
	NetworkMainnet: "https://api.mainnet-beta.solana.com",
	NetworkDevnet:  "https://api.devnet.solana.com",
	NetworkTestnet: "https://api.testnet.solana.com",
}

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetSolanaPasswordBytes()
type Config struct {
	Port                     string        `envconfig:"PORT" default:"8080"`
	Stage                    string        `envconfig:"STAGE" default:"development"`
	LogLevel                 string        `envconfig:"LOG_LEVEL" default:"info"`
	Network                  string        `envconfig:"SOLANA_NETWORK" default:"mainnet-beta"`
	SolanaRPCURL             string        `envconfig:"SOLANA_RPC_URL"`
	SolanaFilePath           string        `envconfig:"SOLANA_FILE_PATH" required:"true"`
	JupiterAPIURL            string        `envconfig:"JUPITER_API_URL" default:"https://quote-api.jup.ag/v6"`
	JupiterRateLimit         float64       `envconfig:"JUPITER_RATE_LIMIT" default:"5"`
	BalancePollInterval      time.Duration `envconfig:"BALANCE_POLL_INTERVAL" default:"10s"`
	ConfirmTimeout           time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"60s"`
	RefreshSettleDelay       time.Duration `envconfig:"REFRESH_SETTLE_DELAY" default:"2s"`
	QuoteDebounce            time.Duration `envconfig:"QUOTE_DEBOUNCE" default:"500ms"`
	DefaultSlippageBps       uint16        `envconfig:"DEFAULT_SLIPPAGE_BPS" default:"50"`
	PriorityFeeMicroLamports uint64        `envconfig:"PRIORITY_FEE_MICRO_LAMPORTS" default:"50"`
	AssetsFile               string        `envconfig:"ASSETS_FILE"`
	HistoryDBPath            string        `envconfig:"HISTORY_DB_PATH"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	if c.SolanaFilePath == "" {
		return errors.New("SOLANA_FILE_PATH must not be empty")
	}
	if _, ok := defaultRPCURLs[c.Network]; !ok {
		return fmt.Errorf("unsupported SOLANA_NETWORK %q: use mainnet-beta, devnet or testnet", c.Network)
	}
	if c.BalancePollInterval < time.Second {
		return fmt.Errorf("BALANCE_POLL_INTERVAL must be at least 1s")
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("CONFIRM_TIMEOUT must be positive")
	}
	if c.DefaultSlippageBps == 0 || c.DefaultSlippageBps > 10000 {
		return fmt.Errorf("DEFAULT_SLIPPAGE_BPS must be between 1 and 10000")
	}
	if c.SolanaRPCURL == "" {
		c.SolanaRPCURL = defaultRPCURLs[c.Network]
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetNetwork returns the selected Solana cluster
func GetNetwork() string {
	return Get().Network
}

// GetSolanaFilePath returns path to .cwt file from configuration
func GetSolanaFilePath() string {
	return Get().SolanaFilePath
}

// GetSolanaRPCURL returns Solana RPC URL, derived from the network when not set explicitly
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// DefaultRPCURL returns the public RPC endpoint of a network
func DefaultRPCURL(network string) (string, bool) {
	u, ok := defaultRPCURLs[network]
	return u, ok
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	SetPassword(raw)
	clear(raw)
	return nil
}

// SetPassword stores a copy of password in memory
func SetPassword(password []byte) {
	clear(passwordBytes)
	passwordBytes = make([]byte, len(password))
	copy(passwordBytes, password)
}

// GetSolanaPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetSolanaPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
