// Package config loads settings for the archive daemon: defaults, then an
// optional YAML file, then SUBNETCONV_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "subnetconv.config"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "subnetconv"

const (
	DefaultListenAddr      = "127.0.0.1:7450"
	DefaultMetricsAddr     = "127.0.0.1:7451"
	DefaultArchiveDir      = ".subnetconv/archive"
	DefaultGRPCTimeout     = 10 * time.Second
	DefaultGRPCMaxMsgBytes = 4 << 20
	DefaultShutdownTimeout = 30 * time.Second
)

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	ListenAddr      string        `yaml:"listenAddr"      envconfig:"LISTEN_ADDR"`
	MetricsAddr     string        `yaml:"metricsAddr"     envconfig:"METRICS_ADDR"`
	ArchiveDir      string        `yaml:"archiveDir"      envconfig:"ARCHIVE_DIR"`
	GRPCTimeout     time.Duration `yaml:"grpcTimeout"     envconfig:"GRPC_TIMEOUT"`
	GRPCMaxMsgBytes int           `yaml:"grpcMaxMsgBytes" envconfig:"GRPC_MAX_MSG_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	Debug           bool          `yaml:"debug"           envconfig:"DEBUG"`

	// UpstreamTarget, when set, is a gRPC archive consulted for reads the
	// local directory cannot satisfy.
	UpstreamTarget string `yaml:"upstreamTarget" envconfig:"UPSTREAM_TARGET"`
}

// Default returns a fresh Config holding the built-in defaults.
func Default() *Config {
	return &Config{
		ListenAddr:      DefaultListenAddr,
		MetricsAddr:     DefaultMetricsAddr,
		ArchiveDir:      DefaultArchiveDir,
		GRPCTimeout:     DefaultGRPCTimeout,
		GRPCMaxMsgBytes: DefaultGRPCMaxMsgBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load builds a Config from the defaults, the YAML file at configFile (if
// non-empty) and the environment, in that order, and validates the result.
func Load(configFile string) (*Config, error) {
	cfg := Default()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listenAddr must not be empty")
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("invalid listenAddr %q: %w", c.ListenAddr, err)
	}
	// An empty metricsAddr disables the metrics endpoint.
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return fmt.Errorf("invalid metricsAddr %q: %w", c.MetricsAddr, err)
		}
	}
	if c.ArchiveDir == "" {
		return errors.New("archiveDir must not be empty")
	}
	if c.GRPCTimeout < 0 {
		return fmt.Errorf("grpcTimeout must not be negative: %s", c.GRPCTimeout)
	}
	if c.GRPCMaxMsgBytes < 0 {
		return fmt.Errorf("grpcMaxMsgBytes must not be negative: %d", c.GRPCMaxMsgBytes)
	}
	if c.UpstreamTarget != "" {
		if _, _, err := net.SplitHostPort(c.UpstreamTarget); err != nil {
			return fmt.Errorf("invalid upstreamTarget %q: %w", c.UpstreamTarget, err)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdownTimeout must be positive: %s", c.ShutdownTimeout)
	}
	return nil
}
