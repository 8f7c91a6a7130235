// Package viewerproto defines the JSON messages spoken between the debug
// viewer server and its browser client. The viewer is a development tool; the
// game renderer consumes chunks in-process and never goes through this.
package viewerproto

import (
	"dustrunner/internal/sim/terrain"
	"dustrunner/internal/sim/tuning"
	"dustrunner/internal/sim/world"
)

const Version = "1.0"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeFrame     = "FRAME"
)

type WorldParams struct {
	Seed            int64   `json:"seed"`
	ChunkSize       float64 `json:"chunk_size"`
	PointSpacing    float64 `json:"point_spacing"`
	LoadDistance    float64 `json:"load_distance"`
	UnloadDistance  float64 `json:"unload_distance"`
	MaxLoadedChunks int     `json:"max_loaded_chunks"`
}

// BootstrapResponse is served over plain HTTP before the socket opens.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	ReferenceX      float64     `json:"reference_x"`
	WorldParams     WorldParams `json:"world_params"`
}

// SubscribeMsg must be the first message on a new socket.
type SubscribeMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	SpanX           float64 `json:"span_x"` // half-width of the streamed window
}

type FrameMsg struct {
	Type       string       `json:"type"`
	Tick       uint64       `json:"tick"`
	ReferenceX float64      `json:"reference_x"`
	Resident   int          `json:"resident"`
	Chunks     []ChunkFrame `json:"chunks"`
}

// ChunkFrame carries one resident chunk's silhouette and entities. Heights
// are Y values only; X positions are reconstructed from world_offset and the
// point spacing in WorldParams.
type ChunkFrame struct {
	Index       int64           `json:"index"`
	WorldOffset float64         `json:"world_offset"`
	Heights     []float64       `json:"heights"`
	Obstacles   []ObstacleFrame `json:"obstacles"`
	Spawns      []SpawnFrame    `json:"spawns"`
}

type ObstacleFrame struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Tint      string  `json:"tint"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Rotation  float64 `json:"rotation"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"max_health"`
	Destroyed bool    `json:"destroyed,omitempty"`
}

type SpawnFrame struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Used bool    `json:"used,omitempty"`
}

func ParamsFromOptions(o tuning.Options) WorldParams {
	return WorldParams{
		Seed:            o.Seed,
		ChunkSize:       o.ChunkSize,
		PointSpacing:    o.PointSpacing,
		LoadDistance:    o.LoadDistance,
		UnloadDistance:  o.UnloadDistance,
		MaxLoadedChunks: o.MaxLoadedChunks,
	}
}

// FrameFromChunks flattens resident chunks into one frame message.
func FrameFromChunks(tick uint64, referenceX float64, resident int, chunks []*world.Chunk) FrameMsg {
	frame := FrameMsg{
		Type:       TypeFrame,
		Tick:       tick,
		ReferenceX: referenceX,
		Resident:   resident,
		Chunks:     make([]ChunkFrame, 0, len(chunks)),
	}
	for _, c := range chunks {
		cf := ChunkFrame{
			Index:       c.Index,
			WorldOffset: c.WorldOffset,
			Heights:     make([]float64, len(c.Heights)),
			Obstacles:   make([]ObstacleFrame, 0, len(c.Obstacles)),
			Spawns:      make([]SpawnFrame, 0, len(c.SpawnPoints)),
		}
		for i, s := range c.Heights {
			cf.Heights[i] = s.Y
		}
		for _, o := range c.Obstacles {
			cf.Obstacles = append(cf.Obstacles, ObstacleFrame{
				ID:        o.ID,
				Kind:      o.Kind.String(),
				Tint:      terrain.CatalogTint(o.Kind),
				X:         o.X,
				Y:         o.Y,
				Width:     o.Width,
				Height:    o.Height,
				Rotation:  o.Rotation,
				Health:    o.Health,
				MaxHealth: o.MaxHealth,
				Destroyed: o.Destroyed,
			})
		}
		for _, s := range c.SpawnPoints {
			cf.Spawns = append(cf.Spawns, SpawnFrame{ID: s.ID, X: s.X, Y: s.Y, Used: s.Used})
		}
		frame.Chunks = append(frame.Chunks, cf)
	}
	return frame
}
