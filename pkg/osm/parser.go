package osm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"logistics_router/pkg/synth"
)

// ErrNoCorridor is returned when no way matches the corridor ref, or the
// matching ways resolve to fewer than two waypoints.
var ErrNoCorridor = errors.New("corridor not found")

// Format is the encoding of an OSM extract.
type Format int

const (
	FormatPBF Format = iota
	FormatXML
)

// FormatFromPath guesses the format from a file name. Anything that is not
// .osm or .xml is treated as PBF.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".osm", ".xml":
		return FormatXML
	}
	return FormatPBF
}

// ParseOptions configures the extract reader.
type ParseOptions struct {
	Format Format

	// CorridorRef selects the trunk route by its ref tag, e.g. "NH 44".
	// Matching ignores case and spaces and accepts ";"-separated lists.
	// Empty skips corridor extraction.
	CorridorRef string

	// Nodes tagged HotspotKey=HotspotValue become last-mile hotspots.
	HotspotKey   string
	HotspotValue string

	// MaxWaypoints thins the corridor to at most this many evenly spaced
	// waypoints, always keeping both ends. 0 keeps every node.
	MaxWaypoints int
}

// DefaultParseOptions returns options for PBF extracts with hotspots
// tagged logistics=last_mile.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Format:       FormatPBF,
		HotspotKey:   "logistics",
		HotspotValue: "last_mile",
		MaxWaypoints: 12,
	}
}

// ParseResult holds the places read from an extract.
type ParseResult struct {
	Corridor []synth.Place
	Hotspots []synth.Place
}

// ApplyTo replaces the config's corridor and hotspots with any that were
// found.
func (r *ParseResult) ApplyTo(cfg *synth.Config) {
	if len(r.Corridor) >= 2 {
		cfg.Corridor = r.Corridor
	}
	if len(r.Hotspots) > 0 {
		cfg.Hotspots = r.Hotspots
	}
}

func newScanner(ctx context.Context, r io.Reader, format Format, skipNodes, skipWays bool) osm.Scanner {
	if format == FormatXML {
		return osmxml.New(ctx, r)
	}
	scanner := osmpbf.New(ctx, r, 1)
	scanner.SkipNodes = skipNodes
	scanner.SkipWays = skipWays
	scanner.SkipRelations = true
	return scanner
}

// Parse reads corridor waypoints and hotspots from an OSM extract.
// The reader is consumed twice (seeks back to start for the second pass),
// so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ParseOptions) (*ParseResult, error) {
	// Pass 1: Scan ways to collect the corridor's node sequence.
	var corridorNodes []osm.NodeID
	var corridorWays int

	if opts.CorridorRef != "" {
		want := normalizeRef(opts.CorridorRef)
		scanner := newScanner(ctx, rs, opts.Format, true, false)
		for scanner.Scan() {
			w, ok := scanner.Object().(*osm.Way)
			if !ok || !refMatches(w.Tags.Find("ref"), want) {
				continue
			}
			corridorWays++
			for _, wn := range w.Nodes {
				if n := len(corridorNodes); n > 0 && corridorNodes[n-1] == wn.ID {
					continue // shared endpoint of consecutive ways
				}
				corridorNodes = append(corridorNodes, wn.ID)
			}
		}
		if err := scanner.Err(); err != nil {
			scanner.Close()
			return nil, fmt.Errorf("pass 1 (ways): %w", err)
		}
		scanner.Close()

		log.Printf("Pass 1 complete: %d corridor ways, %d corridor nodes", corridorWays, len(corridorNodes))

		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek for pass 2: %w", err)
		}
	}

	// Pass 2: Scan nodes for corridor coordinates and hotspots.
	needed := make(map[osm.NodeID]struct{}, len(corridorNodes))
	for _, id := range corridorNodes {
		needed[id] = struct{}{}
	}
	coords := make(map[osm.NodeID]osm.Node, len(needed))

	var hotspots []synth.Place
	scanner := newScanner(ctx, rs, opts.Format, false, true)
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, ok := needed[n.ID]; ok {
			coords[n.ID] = *n
		}
		if opts.HotspotKey != "" && n.Tags.Find(opts.HotspotKey) == opts.HotspotValue {
			hotspots = append(hotspots, placeOf(n))
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d corridor coordinates, %d hotspots", len(coords), len(hotspots))

	result := &ParseResult{Hotspots: hotspots}
	if opts.CorridorRef == "" {
		return result, nil
	}

	var corridor []synth.Place
	var missing int
	for _, id := range corridorNodes {
		n, ok := coords[id]
		if !ok {
			missing++
			continue
		}
		corridor = append(corridor, placeOf(&n))
	}
	if missing > 0 {
		log.Printf("Warning: skipped %d corridor nodes due to missing coordinates", missing)
	}
	if len(corridor) < 2 {
		return nil, fmt.Errorf("ref %q: %w", opts.CorridorRef, ErrNoCorridor)
	}
	result.Corridor = thin(corridor, opts.MaxWaypoints)
	return result, nil
}

// ParseFile opens path and parses it with the format guessed from its
// name. opts.Format is ignored.
func ParseFile(ctx context.Context, path string, opts ParseOptions) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse osm file: %w", err)
	}
	defer f.Close()

	opts.Format = FormatFromPath(path)
	return Parse(ctx, f, opts)
}

func placeOf(n *osm.Node) synth.Place {
	name := n.Tags.Find("name")
	if name == "" {
		name = fmt.Sprintf("node %d", n.ID)
	}
	return synth.Place{Name: name, Lat: n.Lat, Lon: n.Lon}
}

func normalizeRef(ref string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ref), " ", ""))
}

// refMatches reports whether any entry of a ";"-separated ref list
// equals the normalized want.
func refMatches(ref, want string) bool {
	if ref == "" {
		return false
	}
	for _, part := range strings.Split(ref, ";") {
		if normalizeRef(part) == want {
			return true
		}
	}
	return false
}

// thin keeps at most limit evenly spaced places, including both ends.
func thin(places []synth.Place, limit int) []synth.Place {
	if limit < 2 || len(places) <= limit {
		return places
	}
	out := make([]synth.Place, limit)
	step := float64(len(places)-1) / float64(limit-1)
	for i := range out {
		out[i] = places[int(float64(i)*step+0.5)]
	}
	return out
}
