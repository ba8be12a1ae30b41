package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"logistics_router/pkg/network"
	"logistics_router/pkg/planner"
	"logistics_router/pkg/report"
	"logistics_router/pkg/routing"
	"logistics_router/pkg/store"
	"logistics_router/pkg/synth"
)

const (
	maxRequestBytes = 4096
	maxNodeCount    = 500 // per kind; hub and last-mile pairs are all linked
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	planner planner.Planner
	runs    store.RunStore
	base    synth.Config
}

// NewHandlers creates handlers. base is the configuration requests are
// applied on top of.
func NewHandlers(p planner.Planner, runs store.RunStore, base synth.Config) *Handlers {
	return &Handlers{
		planner: p,
		runs:    runs,
		base:    base,
	}
}

// HandleCreateNetwork handles POST /api/v1/networks.
func (h *Handlers) HandleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	var req NetworkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	cfg := req.Apply(h.base)
	if cfg.HubCount > maxNodeCount {
		writeError(w, http.StatusBadRequest, "invalid_config", "hub_count", "too many hubs")
		return
	}
	if cfg.LastMileCount > maxNodeCount {
		writeError(w, http.StatusBadRequest, "invalid_config", "last_mile_count", "too many last-mile points")
		return
	}

	plan, err := h.planner.Plan(r.Context(), cfg)
	if err != nil {
		writePlanError(w, err)
		return
	}

	resp := NetworkResponse{
		RunID:   plan.RunID,
		Seed:    plan.Seed,
		Build:   plan.Build,
		Summary: plan.Summary,
	}
	if req.IncludeGeoJSON {
		resp.GeoJSON = report.GeoJSON(plan.Network, plan.Result)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetRun handles GET /api/v1/runs/{id}.
func (h *Handlers) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id", "")
		return
	}

	rec, err := h.runs.GetRun(r.Context(), id)
	if err != nil {
		writePlanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleListRuns handles GET /api/v1/runs.
func (h *Handlers) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxRunLimit {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit", "")
			return
		}
		limit = n
	}

	recs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		writePlanError(w, err)
		return
	}

	resp := RunListResponse{Runs: make([]RunListItem, 0, len(recs))}
	for _, rec := range recs {
		resp.Runs = append(resp.Runs, RunListItem{
			RunID:     rec.ID,
			Seed:      rec.Seed,
			CreatedAt: rec.CreatedAt,
			Nodes:     rec.Summary.Network.Nodes,
			Edges:     rec.Summary.Network.Edges,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// writePlanError maps domain errors to status codes.
func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, synth.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "invalid_config", "", err.Error())
	case errors.Is(err, routing.ErrNoRoute):
		writeError(w, http.StatusNotFound, "no_route_found", "", "")
	case errors.Is(err, store.ErrRunNotFound):
		writeError(w, http.StatusNotFound, "run_not_found", "", "")
	case errors.Is(err, network.ErrBrokenSegment):
		writeError(w, http.StatusUnprocessableEntity, "broken_path_segment", "", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "", "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field, detail string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field, Detail: detail})
}
