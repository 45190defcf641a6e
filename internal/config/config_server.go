// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerConfig is the server view of [StructuredConfig].
type ServerConfig struct {
	App     App
	DB      DB
	Server  Server
	Workers Workers
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig(flagCfg *StructuredConfig) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(flagCfg)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App:     cfg.App,
		DB:      cfg.Storage.DB,
		Server:  cfg.Server,
		Workers: cfg.Workers,
	}

	return serverCfg, serverCfg.validate()
}

// TokenSettings returns the token lifetime parameters.
func (cfg *ServerConfig) TokenSettings() (issuer string, duration, refreshWindow time.Duration) {
	return cfg.App.TokenIssuer, cfg.App.TokenDuration, cfg.App.RefreshWindow
}
