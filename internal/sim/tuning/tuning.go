package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the full constructor surface of the terrain core. A zero value is
// not usable; start from Defaults and override.
type Options struct {
	Seed int64 `yaml:"seed"`

	// World slicing.
	ChunkSize    float64 `yaml:"chunk_size"`    // width of one chunk, world units
	PointSpacing float64 `yaml:"point_spacing"` // distance between height samples

	// Streaming window.
	LoadDistance      float64 `yaml:"load_distance"`
	UnloadDistance    float64 `yaml:"unload_distance"`
	MaxLoadedChunks   int     `yaml:"max_loaded_chunks"`
	MovementThreshold float64 `yaml:"movement_threshold"` // min reference-x delta before recompute

	// Height profile. Y grows downward (screen coordinates): TerrainHeight is
	// the baseline surface line, MinHeight caps how far up ramps may reach.
	TerrainHeight   float64 `yaml:"terrain_height"`
	HeightVariation float64 `yaml:"height_variation"`
	MinHeight       float64 `yaml:"min_height"`
	SmoothingPasses int     `yaml:"smoothing_passes"`

	// Hazard placement.
	ObstacleSpacing float64 `yaml:"obstacle_spacing"`
	ObstacleJitter  float64 `yaml:"obstacle_jitter"`
	SpawnSpacing    float64 `yaml:"spawn_spacing"`
	ClearanceRadius float64 `yaml:"clearance_radius"`

	// Advisory update budget in milliseconds. Exceeding it logs, nothing more.
	SlowUpdateMs float64 `yaml:"slow_update_ms"`
}

func Defaults() Options {
	return Options{
		Seed:              12345,
		ChunkSize:         1000,
		PointSpacing:      10,
		LoadDistance:      2000,
		UnloadDistance:    3000,
		MaxLoadedChunks:   10,
		MovementThreshold: 50,
		TerrainHeight:     500,
		HeightVariation:   120,
		MinHeight:         150,
		SmoothingPasses:   2,
		ObstacleSpacing:   180,
		ObstacleJitter:    40,
		SpawnSpacing:      350,
		ClearanceRadius:   60,
		SlowUpdateMs:      8,
	}
}

// Load reads a YAML tuning document over the defaults.
func Load(path string) (Options, error) {
	o := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return o, fmt.Errorf("terrain tuning: %w", err)
	}
	return o, nil
}

// Validate rejects an unusable configuration. Construction is the only place
// these are checked; runtime code may assume a validated Options.
func (o Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be > 0, got %v", o.ChunkSize)
	}
	if o.PointSpacing <= 0 {
		return fmt.Errorf("point_spacing must be > 0, got %v", o.PointSpacing)
	}
	if o.PointSpacing > o.ChunkSize {
		return fmt.Errorf("point_spacing %v exceeds chunk_size %v", o.PointSpacing, o.ChunkSize)
	}
	if o.MaxLoadedChunks < 1 {
		return fmt.Errorf("max_loaded_chunks must be >= 1, got %d", o.MaxLoadedChunks)
	}
	if o.LoadDistance <= 0 {
		return fmt.Errorf("load_distance must be > 0, got %v", o.LoadDistance)
	}
	if o.UnloadDistance < o.LoadDistance {
		return fmt.Errorf("unload_distance %v must be >= load_distance %v", o.UnloadDistance, o.LoadDistance)
	}
	if o.MovementThreshold < 0 {
		return fmt.Errorf("movement_threshold must be >= 0, got %v", o.MovementThreshold)
	}
	if o.SmoothingPasses < 0 {
		return fmt.Errorf("smoothing_passes must be >= 0, got %d", o.SmoothingPasses)
	}
	if o.ObstacleSpacing <= 0 {
		return fmt.Errorf("obstacle_spacing must be > 0, got %v", o.ObstacleSpacing)
	}
	if o.ObstacleJitter < 0 || o.ObstacleJitter*2 >= o.ObstacleSpacing {
		return fmt.Errorf("obstacle_jitter must be in [0, obstacle_spacing/2), got %v", o.ObstacleJitter)
	}
	if o.SpawnSpacing <= 0 {
		return fmt.Errorf("spawn_spacing must be > 0, got %v", o.SpawnSpacing)
	}
	if o.ClearanceRadius < 0 {
		return fmt.Errorf("clearance_radius must be >= 0, got %v", o.ClearanceRadius)
	}
	return nil
}
