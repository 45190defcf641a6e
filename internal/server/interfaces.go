package server

import "context"

// Server defines the lifecycle contract of the sync server process.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT and then shuts all
	// transports down gracefully.
	RunServer() error

	// Run serves until ctx is done or a transport fails.
	Run(ctx context.Context) error

	// Shutdown gracefully stops every transport.
	Shutdown()
}
