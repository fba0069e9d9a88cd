// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"go.uber.org/zap"
)

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves index until ctx is cancelled
	StartServer(ctx context.Context, index BuildIndex, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter that logs to logger
	CreateServerStarter(logger *zap.Logger) ServerStarter
}
