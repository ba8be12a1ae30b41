package api

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"logistics_router/pkg/report"
	"logistics_router/pkg/synth"
)

// NetworkRequest is the JSON body for POST /api/v1/networks. Absent
// fields keep the server's base configuration.
type NetworkRequest struct {
	Seed             *int64   `json:"seed,omitempty"`
	HubCount         *int     `json:"hub_count,omitempty"`
	LastMileCount    *int     `json:"last_mile_count,omitempty"`
	MaxHubDistanceKm *float64 `json:"max_hub_distance_km,omitempty"`
	TypePairMaxKm    *float64 `json:"type_pair_max_km,omitempty"`
	IncludeGeoJSON   bool     `json:"include_geojson,omitempty"`
}

// Apply overlays the request on base.
func (r NetworkRequest) Apply(base synth.Config) synth.Config {
	cfg := base
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.HubCount != nil {
		cfg.HubCount = *r.HubCount
	}
	if r.LastMileCount != nil {
		cfg.LastMileCount = *r.LastMileCount
	}
	if r.MaxHubDistanceKm != nil {
		cfg.MaxHubDistanceKm = *r.MaxHubDistanceKm
	}
	if r.TypePairMaxKm != nil {
		cfg.TypePairMaxKm = *r.TypePairMaxKm
	}
	return cfg
}

// NetworkResponse is the JSON response for a synthesized and solved network.
type NetworkResponse struct {
	RunID   string                     `json:"run_id"`
	Seed    int64                      `json:"seed"`
	Build   synth.BuildStats           `json:"build"`
	Summary report.Summary             `json:"summary"`
	GeoJSON *geojson.FeatureCollection `json:"geojson,omitempty"`
}

// RunListItem is one entry of GET /api/v1/runs.
type RunListItem struct {
	RunID     string    `json:"run_id"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

// RunListResponse is the JSON response for GET /api/v1/runs.
type RunListResponse struct {
	Runs []RunListItem `json:"runs"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
