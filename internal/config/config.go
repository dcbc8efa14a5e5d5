package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the server
type Config struct {
	Server    ServerConfig
	Chain     ChainConfig
	Payment   PaymentConfig
	Token     TokenConfig
	Prover    ProverConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
	Proxy     ProxyConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// ChainConfig holds blockchain network selection and RPC endpoints.
// Production selects mainnet; otherwise the test network (Sepolia) is used.
type ChainConfig struct {
	NodeEnv    string
	Production bool
	MainnetRPC string
	SepoliaRPC string
	RPCTimeout int // seconds, applied to every blockchain RPC call
}

// PaymentConfig holds the payment gate settings
type PaymentConfig struct {
	// Recipient is the backend wallet that must receive the proof fee
	Recipient string
	// ProofCostWei is the minimum payment value, denominated in wei
	ProofCostWei string
}

// TokenConfig describes the token whose balances are proved
type TokenConfig struct {
	Symbol          string
	MainnetContract string
	SepoliaContract string
	Decimals        int
	// BalancesSlot is the storage slot index of the token's balance mapping
	BalancesSlot uint64
}

// ProverConfig holds external prover settings
type ProverConfig struct {
	Endpoint   string
	PrivateKey string
	// Mock forces the deterministic mock prover even when a key is configured
	Mock bool
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int
	BurstSize      int
	CleanupMinutes int
}

// SecurityConfig holds security filter settings
type SecurityConfig struct {
	FilterEnabled bool
	MaxBodySizeMB int
}

// ProxyConfig holds trusted proxy settings for X-Forwarded-For handling
type ProxyConfig struct {
	TrustProxy     bool
	TrustedProxies []string // CIDR notation
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	nodeEnv := getEnv("NODE_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("PORT", 8080),
			Host:         getEnv("HOST", "0.0.0.0"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 180),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 120),
		},
		Chain: ChainConfig{
			NodeEnv:    nodeEnv,
			Production: getEnvBool("PRODUCTION_NETWORK", nodeEnv == "production"),
			MainnetRPC: getEnv("MAINNET_RPC_URL", ""),
			SepoliaRPC: getEnv("SEPOLIA_RPC_URL", ""),
			RPCTimeout: getEnvInt("RPC_TIMEOUT", 30),
		},
		Payment: PaymentConfig{
			Recipient:    getEnv("BACKEND_WALLET_ADDRESS", ""),
			ProofCostWei: getEnv("PROOF_COST_WEI", "1000000000000000"), // 0.001 ETH
		},
		Token: TokenConfig{
			Symbol:          getEnv("TOKEN_SYMBOL", "USDT"),
			MainnetContract: getEnv("MAINNET_TOKEN_CONTRACT", "0xdAC17F958D2ee523a2206206994597C13D831ec7"),
			SepoliaContract: getEnv("SEPOLIA_TOKEN_CONTRACT", "0x7169D38820dfd117C3FA1f22a697dBA58d90BA06"),
			Decimals:        getEnvInt("TOKEN_DECIMALS", 6),
			BalancesSlot:    uint64(getEnvInt("TOKEN_BALANCES_SLOT", 2)),
		},
		Prover: ProverConfig{
			Endpoint:   getEnv("SP1_PROVER_ENDPOINT", ""),
			PrivateKey: getEnv("SP1_PRIVATE_KEY", ""),
			Mock:       getEnvBool("MOCK_PROVER", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin: getEnvInt("RATE_LIMIT_RPM", 120),
			BurstSize:      getEnvInt("RATE_LIMIT_BURST", 20),
			CleanupMinutes: getEnvInt("RATE_LIMIT_CLEANUP_MINUTES", 10),
		},
		Security: SecurityConfig{
			FilterEnabled: getEnvBool("SECURITY_FILTER_ENABLED", true),
			MaxBodySizeMB: getEnvInt("SECURITY_MAX_BODY_SIZE_MB", 1),
		},
		Proxy: ProxyConfig{
			TrustProxy:     getEnvBool("TRUST_PROXY", false),
			TrustedProxies: getEnvStringSlice("TRUSTED_PROXIES", []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}),
		},
	}

	return cfg, nil
}

// TokenContract returns the token contract address for the selected network.
func (c *Config) TokenContract() string {
	if c.Chain.Production {
		return c.Token.MainnetContract
	}
	return c.Token.SepoliaContract
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
