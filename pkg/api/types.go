package api

import (
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/rilipak/pkg/cache"
	"github.com/ssargent/rilipak/pkg/modbuild"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"` // oxfmt error kind for decode failures
}

// BuildResponse is one installed build as served by the registry.
type BuildResponse struct {
	ID          string            `json:"id"`
	Build       modbuild.ModBuild `json:"build"`
	Artifact    string            `json:"artifact"`
	Digest      string            `json:"digest"` // hex BLAKE3-256
	InstalledAt time.Time         `json:"installed_at"`
}

// InspectResponse describes a posted .mcmodbuild buffer.
type InspectResponse struct {
	Build modbuild.ModBuild `json:"build"`
	Size  int               `json:"size"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port           int
	Bind           string
	APIKey         string   // empty disables authentication
	AllowedOrigins []string // CORS origins, defaults to any
	MaxBodyBytes   int64    // limit for POST /inspect
}

// BuildIndex is the read side of the build cache the registry serves.
type BuildIndex interface {
	List() ([]cache.Item, error)
	Get(id ksuid.KSUID) (*cache.Entry, error)
}
