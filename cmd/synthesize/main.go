package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	osmparser "logistics_router/pkg/osm"
	"logistics_router/pkg/planner"
	"logistics_router/pkg/report"
	"logistics_router/pkg/routing"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON synthesis config (empty = built-in defaults)")
	osmPath := flag.String("osm", "", "Optional .osm or .osm.pbf extract to take the corridor and hotspots from")
	corridorRef := flag.String("corridor-ref", "NH 544", "ref tag of the corridor road in the OSM extract")
	seed := flag.Int64("seed", 0, "Random seed (0 = derive from the clock)")
	hubs := flag.Int("hubs", -1, "Override the hub count")
	lastMile := flag.Int("last-mile", -1, "Override the last-mile point count")
	output := flag.String("output", "route_summary.json", "Output route summary path")
	geoOutput := flag.String("geojson", "", "Optional output GeoJSON path for the map")
	flag.Parse()

	start := time.Now()

	opts := osmparser.DefaultParseOptions()
	opts.CorridorRef = *corridorRef
	cfg, extract, err := osmparser.LoadLayered(context.Background(), *configPath, *osmPath, opts)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if extract != nil {
		log.Printf("OSM extract %s: %d corridor waypoints, %d hotspots", *osmPath, len(extract.Corridor), len(extract.Hotspots))
	}
	cfg.Seed = *seed
	if *hubs >= 0 {
		cfg.HubCount = *hubs
	}
	if *lastMile >= 0 {
		cfg.LastMileCount = *lastMile
	}

	log.Printf("Synthesizing %s -> %s with %d hubs and %d last-mile points...",
		cfg.Origin.Name, cfg.Destination.Name, cfg.HubCount, cfg.LastMileCount)
	plan, err := planner.NewService(routing.NewEngine(), nil).Plan(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to plan: %v", err)
	}

	b := plan.Build
	log.Printf("Seed %d: %d nodes, %d edges from %d candidate pairs", plan.Seed, len(plan.Network.Nodes), b.Edges, b.Candidates)
	if b.Repaired {
		log.Printf("Connectivity repaired with %d origin links", b.RepairEdges)
	}
	logRoute("Time-optimized", plan.Summary.TimeOptimized)
	logRoute("Eco-optimized", plan.Summary.EcoOptimized.RouteSummary)
	for _, s := range plan.Summary.Insights {
		log.Printf("  %s", s)
	}

	if err := writeJSON(*output, plan.Summary); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
	log.Printf("Wrote %s", *output)

	if *geoOutput != "" {
		if err := writeJSON(*geoOutput, report.GeoJSON(plan.Network, plan.Result)); err != nil {
			log.Fatalf("Failed to write GeoJSON: %v", err)
		}
		log.Printf("Wrote %s", *geoOutput)
	}

	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

func logRoute(label string, r report.RouteSummary) {
	est := ""
	if r.FinalHopEstimated {
		est = " (final hop estimated)"
	}
	log.Printf("%s: %.1f km, %.1f h, %.1f kg CO2, %d stops%s",
		label, r.DistanceKm, r.DurationHours, r.CarbonKgCO2, r.HubsUsed, est)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
