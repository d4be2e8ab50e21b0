package config

import "time"

// Config is built once at startup by Load and never mutated afterwards.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Service   ServiceConfig   `yaml:"service"`
	Delegate  DelegateConfig  `yaml:"delegate"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Filter    FilterConfig    `yaml:"filter"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
	CORS             CORSConfig    `yaml:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ServiceConfig struct {
	OfficialEmail string `yaml:"official_email"`
}

// DelegateConfig selects the external text-generation provider used by the
// AI operation. Active must name an entry in Providers.
type DelegateConfig struct {
	Active    string                    `yaml:"active"`
	Providers map[string]ProviderConfig `yaml:"providers"`
}

type ProviderConfig struct {
	Type          string            `yaml:"type"`
	BaseURL       string            `yaml:"base_url"`
	APIKey        string            `yaml:"api_key"`
	Model         string            `yaml:"model"`
	APIVersion    string            `yaml:"api_version,omitempty"`
	MaxConcurrent int               `yaml:"max_concurrent"`
	Timeout       time.Duration     `yaml:"timeout"`
	Headers       map[string]string `yaml:"headers,omitempty"`
}

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	MetricsPort    int    `yaml:"metrics_port"`
	GRPCHealthPort int    `yaml:"grpc_health_port"`
}

// FilterConfig controls the request filters. All of them are off by default;
// when enabled they can turn an otherwise valid request into a 400.
type FilterConfig struct {
	Secrets   SecretsFilterConfig   `yaml:"secrets"`
	Injection InjectionFilterConfig `yaml:"injection"`
	Policy    PolicyFilterConfig    `yaml:"policy"`
}

type SecretsFilterConfig struct {
	Enabled bool `yaml:"enabled"`
}

type InjectionFilterConfig struct {
	Enabled        bool    `yaml:"enabled"`
	BlockThreshold float64 `yaml:"block_threshold"`
	FlagThreshold  float64 `yaml:"flag_threshold"`
}

type PolicyFilterConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BundlePath        string        `yaml:"bundle_path"`
	Watch             bool          `yaml:"watch"`
	EvaluationTimeout time.Duration `yaml:"evaluation_timeout"`
}

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             3000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
			MaxBodyBytes:     100 << 10,
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
			},
		},
		Delegate: DelegateConfig{
			Active: ProviderGemini,
			Providers: map[string]ProviderConfig{
				ProviderGemini: {
					Type:          ProviderGemini,
					BaseURL:       "https://generativelanguage.googleapis.com/v1beta",
					Model:         "gemini-pro",
					MaxConcurrent: 16,
					Timeout:       60 * time.Second,
				},
			},
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Filter: FilterConfig{
			Secrets: SecretsFilterConfig{Enabled: false},
			Injection: InjectionFilterConfig{
				Enabled:        false,
				BlockThreshold: 0.9,
				FlagThreshold:  0.7,
			},
			Policy: PolicyFilterConfig{
				Enabled:           false,
				BundlePath:        "configs/policies",
				Watch:             true,
				EvaluationTimeout: 100 * time.Millisecond,
			},
		},
	}
}

// ActiveProvider returns the configuration of the delegate provider in use.
func (c *Config) ActiveProvider() (ProviderConfig, bool) {
	p, ok := c.Delegate.Providers[c.Delegate.Active]
	return p, ok
}
