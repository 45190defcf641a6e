package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the HMAC key used by the client for payload integrity headers.
	HashKey  string
	LogLevel string
	LogFile  string
	Version  string
}

// ClientAdapter holds settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the server API root all request paths are relative to.
	BaseURL string
	// RequestTimeout is the timeout of one outbound request attempt.
	RequestTimeout time.Duration
	// RetryBaseDelay is the first transient-retry delay; it doubles per attempt.
	RetryBaseDelay time.Duration
	// MaxAttempts caps attempts per request on transient failure.
	MaxAttempts int
	// HealthPath and ConnectTimeout drive the reachability probe.
	HealthPath     string
	ConnectTimeout time.Duration
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// LocalDSN is the SQLite path holding pulled records.
	LocalDSN string
	// StatePath is the bbolt file with watermarks and the offline queue.
	StatePath string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background sync runs; zero disables it.
	SyncInterval time.Duration
	// QueueMaxRetries is the replay ceiling of offline queue items.
	QueueMaxRetries int
}

// ClientAuth holds the daemon credentials.
type ClientAuth struct {
	Login    string
	Password string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Auth    ClientAuth
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(flagCfg *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey:  cfg.App.HashKey,
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
			Version:  cfg.App.Version,
		},
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryBaseDelay: cfg.Adapter.RetryBaseDelay,
			MaxAttempts:    cfg.Adapter.MaxAttempts,
			HealthPath:     cfg.Adapter.HealthPath,
			ConnectTimeout: cfg.Adapter.ConnectTimeout,
		},
		Storage: ClientStorage{
			LocalDSN:  cfg.Storage.Local.DSN,
			StatePath: cfg.Storage.Local.StatePath,
		},
		Workers: ClientWorkers{
			QueueMaxRetries: cfg.Workers.QueueMaxRetries,
		},
		Auth: ClientAuth{
			Login:    cfg.Auth.Login,
			Password: cfg.Auth.Password,
		},
	}
	if cfg.Workers.SyncInterval != nil {
		clientCfg.Workers.SyncInterval = *cfg.Workers.SyncInterval
	}

	return clientCfg
}
