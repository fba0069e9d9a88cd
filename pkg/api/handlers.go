package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/rilipak/pkg/cache"
	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/ssargent/rilipak/pkg/oxfmt"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes caps the size of an inspected buffer.
const DefaultMaxBodyBytes = 1 << 20

// Server holds the API server state
type Server struct {
	index   BuildIndex
	config  ServerConfig
	metrics *Metrics
	sugar   *zap.SugaredLogger
}

// NewServer creates a new API server
func NewServer(index BuildIndex, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		index:   index,
		config:  config,
		metrics: metrics,
		sugar:   logger.Sugar(),
	}
}

func toResponse(item cache.Item) BuildResponse {
	return BuildResponse{
		ID:          item.ID.String(),
		Build:       item.Entry.Build,
		Artifact:    item.Entry.Artifact,
		Digest:      hex.EncodeToString(item.Entry.Digest),
		InstalledAt: time.Unix(int64(item.Entry.InstalledAt), 0).UTC(),
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListBuilds godoc
//
//	@Summary		List installed builds
//	@Description	List every build in the cache, oldest first
//	@Tags			builds
//	@Produce		json
//	@Success		200	{object}	APIResponse{data=[]BuildResponse}
//	@Failure		500	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/builds [get]
func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	items, err := s.index.List()
	s.metrics.RecordCacheOperation("list", err == nil)
	if err != nil {
		s.decodeFailure(err)
		s.sugar.Errorw("failed to list builds", "error", err)
		sendError(w, "Failed to list builds", http.StatusInternalServerError)
		return
	}

	out := make([]BuildResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	sendSuccess(w, out)
}

// handleGetBuild godoc
//
//	@Summary		Get an installed build
//	@Tags			builds
//	@Produce		json
//	@Param			id	path		string	true	"Build ID (KSUID)"
//	@Success		200	{object}	APIResponse{data=BuildResponse}
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/builds/{id} [get]
func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sendSuccess(w, toResponse(item))
}

// handleRawBuild godoc
//
//	@Summary		Download a build recipe
//	@Description	Return the .mcmodbuild encoding of an installed build
//	@Tags			builds
//	@Produce		octet-stream
//	@Param			id	path		string	true	"Build ID (KSUID)"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/builds/{id}/raw [get]
func (s *Server) handleRawBuild(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookup(w, r)
	if !ok {
		return
	}

	data, err := oxfmt.Marshal(&item.Entry.Build)
	if err != nil {
		s.sugar.Errorw("failed to encode build", "id", item.ID, "error", err)
		sendError(w, "Failed to encode build", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.Entry.Build.FileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleInspect godoc
//
//	@Summary		Decode a build recipe
//	@Description	Decode a posted .mcmodbuild buffer and return it as JSON
//	@Tags			inspect
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"oxfmt buffer"
//	@Success		200		{object}	APIResponse{data=InspectResponse}
//	@Failure		400		{object}	APIResponse
//	@Failure		413		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/inspect [post]
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	b, err := modbuild.DecodeBytes(body)
	if err != nil {
		kind := oxfmt.ErrorKind(err)
		s.metrics.RecordDecodeFailure(kind)
		sendErrorKind(w, err.Error(), kind, http.StatusBadRequest)
		return
	}
	sendSuccess(w, InspectResponse{Build: *b, Size: len(body)})
}

// lookup resolves the {id} parameter, writing the error response itself
// when it cannot.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (cache.Item, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid build id", http.StatusBadRequest)
		return cache.Item{}, false
	}

	entry, err := s.index.Get(id)
	s.metrics.RecordCacheOperation("get", err == nil)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		sendError(w, "Build not found", http.StatusNotFound)
		return cache.Item{}, false
	case err != nil:
		s.decodeFailure(err)
		s.sugar.Errorw("failed to read build", "id", id, "error", err)
		sendError(w, "Failed to read build", http.StatusInternalServerError)
		return cache.Item{}, false
	}
	return cache.Item{ID: id, Entry: *entry}, true
}

func (s *Server) decodeFailure(err error) {
	if kind := oxfmt.ErrorKind(err); kind != "other" {
		s.metrics.RecordDecodeFailure(kind)
	}
}
