package osm

import (
	"context"
	"fmt"

	"logistics_router/pkg/synth"
)

// LoadLayered builds a synthesis config from the built-in defaults, then
// the JSON file at configPath, then the corridor and hotspots of the
// extract at osmPath. Empty paths skip their layer. The parse result is nil
// when no extract was read.
func LoadLayered(ctx context.Context, configPath, osmPath string, opts ParseOptions) (synth.Config, *ParseResult, error) {
	cfg := synth.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = synth.LoadConfig(configPath); err != nil {
			return synth.Config{}, nil, err
		}
	}
	if osmPath == "" {
		return cfg, nil, nil
	}

	res, err := ParseFile(ctx, osmPath, opts)
	if err != nil {
		return synth.Config{}, nil, fmt.Errorf("osm extract: %w", err)
	}
	res.ApplyTo(&cfg)
	return cfg, res, nil
}
