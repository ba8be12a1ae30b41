package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"logistics_router/pkg/api"
	osmparser "logistics_router/pkg/osm"
	"logistics_router/pkg/planner"
	"logistics_router/pkg/routing"
	"logistics_router/pkg/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := flag.String("port", getEnv("PORT", "8080"), "HTTP port")
	configPath := flag.String("config", getEnv("SYNTH_CONFIG", ""), "Path to a JSON synthesis config (empty = built-in defaults)")
	osmPath := flag.String("osm", getEnv("OSM_EXTRACT", ""), "Optional .osm or .osm.pbf extract to take the corridor and hotspots from")
	corridorRef := flag.String("corridor-ref", getEnv("CORRIDOR_REF", "NH 544"), "ref tag of the corridor road in the OSM extract")
	corsOrigin := flag.String("cors-origin", getEnv("CORS_ORIGIN", ""), "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	opts := osmparser.DefaultParseOptions()
	opts.CorridorRef = *corridorRef
	base, _, err := osmparser.LoadLayered(context.Background(), *configPath, *osmPath, opts)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := base.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	log.Printf("Base config: %s -> %s, %d hubs, %d last-mile points, %d corridor waypoints",
		base.Origin.Name, base.Destination.Name, base.HubCount, base.LastMileCount, len(base.Corridor))

	// Run store.
	var runs store.RunStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := store.Open(dbURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		pg := store.NewPostgresRunStore(db)
		if err := pg.InitSchema(context.Background()); err != nil {
			log.Fatal(err)
		}
		runs = pg
		log.Println("Recording runs in Postgres")
	} else {
		runs = store.NewMemoryRunStore()
		log.Println("DATABASE_URL not set, recording runs in memory")
	}

	svc := planner.NewService(routing.NewEngine(), runs)
	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	// Setup HTTP server.
	cfg := api.DefaultConfig(":" + *port)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(svc, runs, base)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
