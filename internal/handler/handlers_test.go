package handler

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverConfig(httpAddress, grpcAddress string) *config.ServerConfig {
	return &config.ServerConfig{
		App: config.App{HashKey: "key"},
		Server: config.Server{
			HTTPAddress:    httpAddress,
			GRPCAddress:    grpcAddress,
			RequestTimeout: time.Second,
		},
	}
}

func TestNewHandlers(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.ServerConfig
		wantHTTP bool
		wantGRPC bool
		wantErr  error
	}{
		{name: "both addresses", cfg: serverConfig(":8080", ":9090"), wantHTTP: true, wantGRPC: true},
		{name: "only http", cfg: serverConfig(":8080", ""), wantHTTP: true},
		{name: "only grpc", cfg: serverConfig("", ":9090"), wantGRPC: true},
		{name: "no addresses", cfg: serverConfig("", ""), wantErr: errNoHandlersAreCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandlers(&service.Services{}, tt.cfg, logger.Nop())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHTTP, h.HTTP != nil)
			assert.Equal(t, tt.wantGRPC, h.GRPC != nil)
		})
	}
}
