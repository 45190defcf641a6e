// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants shared by both binaries.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.SyncInterval != nil && *cfg.Workers.SyncInterval < 0 {
		return ErrInvalidWorkerConfigs
	}
	if cfg.Workers.QueueMaxRetries < 1 {
		return ErrInvalidWorkerConfigs
	}
	if cfg.Adapter.MaxAttempts < 1 {
		return ErrInvalidAdapterConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.LocalDSN == "" || strings.Contains(cfg.Storage.LocalDSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.StatePath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}
	if u, err := url.Parse(cfg.Adapter.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval < 0 || cfg.Workers.QueueMaxRetries < 1 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	return nil
}
