// Package synth places the nodes of a stochastic logistics network and
// wires them into an attributed graph.
package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/paulmach/orb"
)

// ErrInvalidConfig is returned when a Config cannot produce a network.
var ErrInvalidConfig = errors.New("invalid config")

// Place is a named coordinate.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Point returns the place as an orb point (lon, lat).
func (p Place) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Config holds every parameter of network synthesis.
type Config struct {
	Seed int64 `json:"seed"` // 0 selects the default seed

	Origin      Place `json:"origin"`
	Destination Place `json:"destination"`

	HubCount      int `json:"hub_count"`
	LastMileCount int `json:"last_mile_count"`

	MaxHubDistanceKm  float64 `json:"max_hub_distance_km"`
	HubJitterDeg      float64 `json:"hub_jitter_deg"`
	LastMileJitterDeg float64 `json:"last_mile_jitter_deg"`

	// TypePairMaxKm caps the origin-hub and hub-last_mile links that are
	// otherwise created regardless of distance. 0 disables the cap.
	TypePairMaxKm float64 `json:"type_pair_max_km"`

	// RepairFanout is how many hubs nearest the origin are linked to it
	// when origin and destination end up disconnected.
	RepairFanout int `json:"repair_fanout"`

	Corridor []Place `json:"corridor"`
	Hotspots []Place `json:"hotspots"`
}

// DefaultConfig returns the Coimbatore to Bengaluru network.
func DefaultConfig() Config {
	return Config{
		Origin:            Place{Name: "Coimbatore Fulfillment Center", Lat: 11.0168, Lon: 76.9558},
		Destination:       Place{Name: "Customer Delivery Point", Lat: 12.9716, Lon: 77.5946},
		HubCount:          150,
		LastMileCount:     50,
		MaxHubDistanceKm:  150,
		HubJitterDeg:      0.2,
		LastMileJitterDeg: 0.1,
		RepairFanout:      3,
		Corridor: []Place{
			{Name: "Erode", Lat: 11.3410, Lon: 77.7172},
			{Name: "Salem", Lat: 11.6643, Lon: 78.1460},
			{Name: "Krishnagiri", Lat: 12.5198, Lon: 78.2138},
			{Name: "Mandya", Lat: 12.3118, Lon: 76.6527},
			{Name: "Bengaluru Gateway", Lat: 12.9716, Lon: 77.5946},
		},
		Hotspots: []Place{
			{Name: "Hebbal DSP", Lat: 13.0355, Lon: 77.5970},
			{Name: "Whitefield DSP", Lat: 12.9592, Lon: 77.6974},
			{Name: "Jayanagar DSP", Lat: 12.8994, Lon: 77.5849},
			{Name: "Indiranagar DSP", Lat: 12.9784, Lon: 77.6408},
			{Name: "Electronic City DSP", Lat: 12.9255, Lon: 77.5468},
		},
	}
}

// LoadConfig reads a JSON config file on top of DefaultConfig. Fields
// absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first problem that would prevent synthesis.
func (c Config) Validate() error {
	switch {
	case c.HubCount < 0:
		return fmt.Errorf("%w: hub_count %d is negative", ErrInvalidConfig, c.HubCount)
	case c.LastMileCount < 0:
		return fmt.Errorf("%w: last_mile_count %d is negative", ErrInvalidConfig, c.LastMileCount)
	case !(c.MaxHubDistanceKm > 0) || math.IsInf(c.MaxHubDistanceKm, 0):
		return fmt.Errorf("%w: max_hub_distance_km must be positive and finite", ErrInvalidConfig)
	case c.HubJitterDeg < 0 || c.LastMileJitterDeg < 0 || math.IsNaN(c.HubJitterDeg) || math.IsNaN(c.LastMileJitterDeg):
		return fmt.Errorf("%w: jitter must not be negative", ErrInvalidConfig)
	case c.TypePairMaxKm < 0 || math.IsNaN(c.TypePairMaxKm):
		return fmt.Errorf("%w: type_pair_max_km must not be negative", ErrInvalidConfig)
	case c.RepairFanout < 1:
		return fmt.Errorf("%w: repair_fanout must be at least 1", ErrInvalidConfig)
	case c.HubCount > 0 && len(c.Corridor) < 2:
		return fmt.Errorf("%w: corridor needs at least 2 waypoints, got %d", ErrInvalidConfig, len(c.Corridor))
	case c.LastMileCount > 0 && len(c.Hotspots) == 0:
		return fmt.Errorf("%w: last-mile points need at least one hotspot", ErrInvalidConfig)
	}

	if err := validPlace("origin", c.Origin); err != nil {
		return err
	}
	if err := validPlace("destination", c.Destination); err != nil {
		return err
	}
	if c.Origin.Lat == c.Destination.Lat && c.Origin.Lon == c.Destination.Lon {
		return fmt.Errorf("%w: origin and destination coincide", ErrInvalidConfig)
	}
	for i, p := range c.Corridor {
		if err := validPlace(fmt.Sprintf("corridor[%d]", i), p); err != nil {
			return err
		}
	}
	for i, p := range c.Hotspots {
		if err := validPlace(fmt.Sprintf("hotspots[%d]", i), p); err != nil {
			return err
		}
	}
	return nil
}

func validPlace(field string, p Place) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: %s (%f, %f) out of range", ErrInvalidConfig, field, p.Lat, p.Lon)
	}
	return nil
}

// NewRand returns the random source for a seed. Seed 0 maps to 1 so that
// an unset seed is still reproducible.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
