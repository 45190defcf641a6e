// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags holds command-line flag values registered on a [pflag.FlagSet].
// Call [Flags.Config] after the flag set has been parsed.
type Flags struct {
	fs *pflag.FlagSet

	serverAddress     NetAddress
	grpcServerAddress NetAddress
	databaseDSN       string
	localDSN          string
	statePath         string
	configPath        string
	tokenSignKey      string
	tokenIssuer       string
	tokenDuration     time.Duration
	requestTimeout    time.Duration
	hashKey           string
	logLevel          string
	logFile           string
	adapterAddress    string
	syncInterval      time.Duration
	login             string
	password          string
}

// NewFlags registers all configuration flags on fs.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	--grpc-address grpc server address in format [host]:[port]
//	-d database DSN
//	--local-dsn local SQLite path
//	--state-path local sync state path
//	-c/--config json or yaml file path with configs
//	--token-sign-key token signing key
//	--token-issuer token issuer name
//	--token-duration token duration (e.g., "1h", "30m")
//	--request-timeout request timeout (e.g., "30s", "1m")
//	--hash-key request integrity hash key
//	--log-level log level
//	--log-file client log file
//	-s server base URL for the client
//	--sync-interval background sync interval ("0s" disables)
//	-l/--login, -p/--password client credentials
func NewFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	fs.VarP(&f.serverAddress, "address", "a", "Net address host:port")
	fs.Var(&f.grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVarP(&f.databaseDSN, "database-dsn", "d", "", "Database DSN")
	fs.StringVar(&f.localDSN, "local-dsn", "", "Local SQLite database path")
	fs.StringVar(&f.statePath, "state-path", "", "Local sync state path")
	fs.StringVarP(&f.configPath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVar(&f.tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&f.tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&f.tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&f.hashKey, "hash-key", "", "Request integrity hash key")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path")
	fs.StringVarP(&f.adapterAddress, "server", "s", "", "Server base URL")
	fs.DurationVar(&f.syncInterval, "sync-interval", 0, "Background sync interval, 0s disables")
	fs.StringVarP(&f.login, "login", "l", "", "Login")
	fs.StringVarP(&f.password, "password", "p", "", "Password")

	return f
}

// ParseFlags registers the configuration flags on a fresh flag set, parses
// args and returns the resulting partial config.
func ParseFlags(name string, args []string) (*StructuredConfig, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f := NewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f.Config(), nil
}

// Config returns the values set on the command line as a partial
// [StructuredConfig]. Request timeout applies to both server and adapter.
func (f *Flags) Config() *StructuredConfig {
	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  f.tokenSignKey,
			TokenIssuer:   f.tokenIssuer,
			TokenDuration: f.tokenDuration,
			HashKey:       f.hashKey,
			LogLevel:      f.logLevel,
			LogFile:       f.logFile,
		},
		Storage: Storage{
			DB: DB{DSN: f.databaseDSN},
			Local: Local{
				DSN:       f.localDSN,
				StatePath: f.statePath,
			},
		},
		Server: Server{
			HTTPAddress:    f.serverAddress.String(),
			GRPCAddress:    f.grpcServerAddress.String(),
			RequestTimeout: f.requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    f.adapterAddress,
			RequestTimeout: f.requestTimeout,
		},
		Auth: Auth{
			Login:    f.login,
			Password: f.password,
		},
		FilePath: f.configPath,
	}

	if f.fs != nil && f.fs.Changed("sync-interval") {
		interval := f.syncInterval
		cfg.Workers.SyncInterval = &interval
	}

	return cfg
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
