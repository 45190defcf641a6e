// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyDefaults()

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(flagCfg *StructuredConfig) *configBuilder {
	if flagCfg == nil {
		return b
	}

	b.configs = append(b.configs, flagCfg)
	return b
}

func (b *configBuilder) withFile() *configBuilder {
	var path string
	for _, cfg := range b.configs {
		if cfg.FilePath != "" {
			path = cfg.FilePath
			break
		}
	}

	if path == "" {
		return b
	}

	fileCfg, err := parseFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, fileCfg)

	return b
}

func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.Server.HTTPAddress, DefaultHTTPAddress)
	setDefault(&cfg.Server.GRPCAddress, DefaultGRPCAddress)
	setDefault(&cfg.Server.RequestTimeout, DefaultRequestTimeout)

	setDefault(&cfg.Adapter.RequestTimeout, DefaultRequestTimeout)
	setDefault(&cfg.Adapter.RetryBaseDelay, DefaultRetryBaseDelay)
	setDefault(&cfg.Adapter.MaxAttempts, DefaultMaxAttempts)
	setDefault(&cfg.Adapter.HealthPath, DefaultHealthPath)
	setDefault(&cfg.Adapter.ConnectTimeout, DefaultConnectTimeout)

	if cfg.Workers.SyncInterval == nil {
		interval := DefaultSyncInterval
		cfg.Workers.SyncInterval = &interval
	}
	setDefault(&cfg.Workers.QueueMaxRetries, DefaultQueueMaxRetries)

	setDefault(&cfg.App.TokenDuration, DefaultTokenDuration)
	setDefault(&cfg.App.RefreshWindow, DefaultRefreshWindow)
	setDefault(&cfg.App.TokenIssuer, DefaultTokenIssuer)
	setDefault(&cfg.App.LogLevel, DefaultLogLevel)

	setDefault(&cfg.Storage.Local.DSN, DefaultLocalDSN)
	setDefault(&cfg.Storage.Local.StatePath, DefaultStatePath)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
