package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/umlflow/pkg/buildinfo"
	"github.com/matzehuels/umlflow/pkg/cache"
	"github.com/matzehuels/umlflow/pkg/errors"
	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/pipeline"
	"github.com/matzehuels/umlflow/pkg/store"
)

// layoutRequest is the body of POST /v1/layout and POST /v1/render.
// Pipeline options sit next to the diagram:
//
//	{"diagram": {"flow": [...], "logicalConnections": [...]},
//	 "config": {"canvas_width": 1600}, "format": "svg"}
type layoutRequest struct {
	Diagram flow.Diagram `json:"diagram"`
	pipeline.Options
}

type healthBody struct {
	Status string `json:"status"`
	buildinfo.Info
}

// layoutResponse is returned by POST /v1/layout.
type layoutResponse struct {
	ID        string         `json:"id"`
	Cached    bool           `json:"cached"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Layout    *layout.Result `json:"layout"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Info: buildinfo.Current()})
}

// handleLayout computes a layout, stores it and returns the record.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	opts := req.Options
	res, hit, err := s.runner.LayoutWithCacheInfo(ctx, req.Diagram, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	diagramHash, err := cache.HashJSON(req.Diagram)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	configHash, err := opts.ConfigHash()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.NewRecord(res, diagramHash, configHash, s.cfg.RecordTTL)
	rec.Diagram = &req.Diagram
	if err := s.store.Put(ctx, rec); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "store layout"))
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, layoutResponse{
		ID:        rec.ID,
		Cached:    hit,
		ExpiresAt: rec.ExpiresAt,
		Layout:    res,
	})
}

// handleRender lays out and renders without storing.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	opts := req.Options
	opts.Format = normalizeFormat(opts.Format, pipeline.DefaultFormat)
	res, err := s.runner.Execute(r.Context(), req.Diagram, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, opts.Format, res.Artifact, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleRenderStored renders a stored layout in ?format= (default svg).
func (s *Server) handleRenderStored(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Format:    normalizeFormat(q.Get("format"), pipeline.FormatSVG),
		Detailed:  q.Get("detailed") == "true",
		HideLanes: q.Get("hideLanes") == "true",
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	var d flow.Diagram
	if rec.Diagram != nil {
		d = *rec.Diagram
	}
	data, hit, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Result, d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, opts.Format, data, hit)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "delete layout"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup loads the record named by the {id} URL parameter, writing the error
// response itself when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "layout %s not found", id))
		return nil, false
	}
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "load layout"))
		return nil, false
	}
	return rec, true
}

// decodeRequest reads a layoutRequest, writing the error response itself when
// the body is unusable.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*layoutRequest, bool) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	// Absent config keys keep their defaults; explicit zeros survive.
	req := layoutRequest{Options: pipeline.Options{Config: layout.DefaultConfig()}}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeErrorStatus(w, r, http.StatusRequestEntityTooLarge,
				errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return nil, false
	}
	if len(req.Diagram.Flow) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "diagram has no flow elements"))
		return nil, false
	}
	return &req, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorStatus(w, r, errors.HTTPStatus(err), err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "route", r.URL.Path, "err", err, "request_id", requestIDFrom(r.Context()))
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	body.RequestID = requestIDFrom(r.Context())
	writeJSON(w, status, body)
}

func normalizeFormat(format, def string) string {
	if format == "" {
		return def
	}
	return strings.ToLower(format)
}

func writeArtifact(w http.ResponseWriter, format string, data []byte, cached bool) {
	ct, ok := contentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
