// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	RPC       RPCConfig       `mapstructure:"rpc"`
	Contracts ContractsConfig `mapstructure:"contracts"`
	Casino    CasinoConfig    `mapstructure:"casino"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// WalletConfig holds provider discovery settings.
type WalletConfig struct {
	InjectedURL       string        `mapstructure:"injected_url"` // wallet/signer RPC, preferred when set
	FallbackURL       string        `mapstructure:"fallback_url"` // local development node
	HandshakeAttempts uint          `mapstructure:"handshake_attempts"`
	HandshakeDelay    time.Duration `mapstructure:"handshake_delay"`
}

// RPCConfig holds transport limits shared by every provider.
type RPCConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// ContractsConfig locates compiled contract artifacts.
type ContractsConfig struct {
	ArtifactsDir string `mapstructure:"artifacts_dir"`
}

// CasinoConfig names the contract and method the client joins through.
type CasinoConfig struct {
	ContractName string `mapstructure:"contract_name"`
	JoinMethod   string `mapstructure:"join_method"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"` // zipkin, otlp-grpc, otlp-http, console, empty
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// HealthConfig holds the probe server settings.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CASINO")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "CASINO_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "CASINO_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "CASINO_LOG_LEVEL", "LOG_LEVEL")

	// Wallet
	v.BindEnv("wallet.injected_url", "CASINO_INJECTED_URL", "WEB3_PROVIDER")
	v.BindEnv("wallet.fallback_url", "CASINO_FALLBACK_URL", "ETH_HTTP_URL")
	v.BindEnv("wallet.handshake_attempts", "CASINO_HANDSHAKE_ATTEMPTS")

	// RPC
	v.BindEnv("rpc.timeout", "CASINO_RPC_TIMEOUT")
	v.BindEnv("rpc.requests_per_second", "CASINO_RPC_RPS")

	// Contracts
	v.BindEnv("contracts.artifacts_dir", "CASINO_ARTIFACTS_DIR")

	// Telemetry
	v.BindEnv("telemetry.enabled", "CASINO_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "CASINO_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "CASINO_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.trace_provider", "CASINO_TRACE_PROVIDER")

	// Health
	v.BindEnv("health.port", "CASINO_HEALTH_PORT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "casino-dapp")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// truffle develop listens on 9545
	v.SetDefault("wallet.fallback_url", "http://127.0.0.1:9545")
	v.SetDefault("wallet.handshake_attempts", 3)
	v.SetDefault("wallet.handshake_delay", "500ms")

	v.SetDefault("rpc.timeout", "10s")
	v.SetDefault("rpc.requests_per_second", 20)
	v.SetDefault("rpc.burst", 5)

	v.SetDefault("contracts.artifacts_dir", "build/contracts")

	v.SetDefault("casino.contract_name", "Casino")
	v.SetDefault("casino.join_method", "joinGame")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "casino-dapp")
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.otlp_endpoint", "http://localhost:9411/api/v2/spans")
	v.SetDefault("telemetry.prometheus_port", 9090)

	v.SetDefault("health.enabled", true)
	v.SetDefault("health.port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Wallet.InjectedURL == "" && c.Wallet.FallbackURL == "" {
		return fmt.Errorf("one of wallet.injected_url or wallet.fallback_url is required")
	}
	for key, raw := range map[string]string{
		"wallet.injected_url": c.Wallet.InjectedURL,
		"wallet.fallback_url": c.Wallet.FallbackURL,
	} {
		if raw == "" {
			continue
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	if c.Wallet.HandshakeAttempts == 0 {
		return fmt.Errorf("wallet.handshake_attempts must be at least 1")
	}
	if c.Casino.ContractName == "" {
		return fmt.Errorf("casino.contract_name is required")
	}
	if c.Casino.JoinMethod == "" {
		return fmt.Errorf("casino.join_method is required")
	}
	if c.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc.timeout must be positive")
	}
	return nil
}
