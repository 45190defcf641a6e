// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] for JSON and YAML files, with
// durations written as strings such as "30s" or "15m".
type fileConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration"`
		RefreshWindow Duration `json:"refresh_window" yaml:"refresh_window"`
		HashKey       string   `json:"hash_key" yaml:"hash_key"`
		Version       string   `json:"version" yaml:"version"`
		LogLevel      string   `json:"log_level" yaml:"log_level"`
		LogFile       string   `json:"log_file" yaml:"log_file"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`
		Local struct {
			DSN       string `json:"dsn" yaml:"dsn"`
			StatePath string `json:"state_path" yaml:"state_path"`
		} `json:"local" yaml:"local"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		RetryBaseDelay Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
		MaxAttempts    int      `json:"max_attempts" yaml:"max_attempts"`
		HealthPath     string   `json:"health_path" yaml:"health_path"`
		ConnectTimeout Duration `json:"connect_timeout" yaml:"connect_timeout"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		SyncInterval    *Duration `json:"sync_interval" yaml:"sync_interval"`
		QueueMaxRetries int       `json:"queue_max_retries" yaml:"queue_max_retries"`
	} `json:"workers" yaml:"workers"`

	Auth struct {
		Login    string `json:"login" yaml:"login"`
		Password string `json:"password" yaml:"password"`
	} `json:"auth" yaml:"auth"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFile, path)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  fc.App.TokenSignKey,
			TokenIssuer:   fc.App.TokenIssuer,
			TokenDuration: time.Duration(fc.App.TokenDuration),
			RefreshWindow: time.Duration(fc.App.RefreshWindow),
			HashKey:       fc.App.HashKey,
			Version:       fc.App.Version,
			LogLevel:      fc.App.LogLevel,
			LogFile:       fc.App.LogFile,
		},
		Storage: Storage{
			DB: DB{DSN: fc.Storage.DB.DSN},
			Local: Local{
				DSN:       fc.Storage.Local.DSN,
				StatePath: fc.Storage.Local.StatePath,
			},
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			GRPCAddress:    fc.Server.GRPCAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    fc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
			RetryBaseDelay: time.Duration(fc.Adapter.RetryBaseDelay),
			MaxAttempts:    fc.Adapter.MaxAttempts,
			HealthPath:     fc.Adapter.HealthPath,
			ConnectTimeout: time.Duration(fc.Adapter.ConnectTimeout),
		},
		Workers: Workers{
			QueueMaxRetries: fc.Workers.QueueMaxRetries,
		},
		Auth: Auth{
			Login:    fc.Auth.Login,
			Password: fc.Auth.Password,
		},
	}

	if fc.Workers.SyncInterval != nil {
		interval := time.Duration(*fc.Workers.SyncInterval)
		cfg.Workers.SyncInterval = &interval
	}

	return cfg
}

// Duration is a wrapper around time.Duration that supports unmarshaling from
// strings like "1h", "30s" in both JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
