package sink

import (
	"encoding/json"

	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/paint"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	tileSize float64
	mapSize  float64
	counts   []int
}

// WithJSONTileSize records the prototype edge length so consumers can
// recover footprints from scales.
func WithJSONTileSize(s float64) JSONOption { return func(r *jsonRenderer) { r.tileSize = s } }

// WithJSONMap records the generation parameters.
func WithJSONMap(counts []int, mapSize float64) JSONOption {
	return func(r *jsonRenderer) { r.counts = counts; r.mapSize = mapSize }
}

// Output is the document written by RenderJSON.
type Output struct {
	Counts   []int   `json:"counts,omitempty"`
	MapSize  float64 `json:"map_size,omitempty"`
	TileSize float64 `json:"tile_size"`
	Bands    []Band  `json:"bands"`
}

// Band is one LOD entry.
type Band struct {
	Index       int     `json:"index"`
	Layer       string  `json:"layer"`
	Threshold   float64 `json:"threshold"`
	Renderables int     `json:"renderables"`
	Tiles       []Tile  `json:"tiles"`
}

// Tile is one child of a layer container.
type Tile struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Model    string     `json:"model,omitempty"`
	Position [3]float64 `json:"position"`
	Scale    [3]float64 `json:"scale"`
	Color    *paint.RGB `json:"color,omitempty"`
}

// RenderJSON exports every band as a pretty-printed JSON document. The
// output depends only on the map, so it can be cached by map key. It is an
// export format only; nothing reads it back into a scene.
func RenderJSON(entries []lod.Entry, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{tileSize: 1}
	for _, opt := range opts {
		opt(&r)
	}

	out := Output{
		Counts:   r.counts,
		MapSize:  r.mapSize,
		TileSize: r.tileSize,
		Bands:    make([]Band, 0, len(entries)),
	}
	for i, e := range entries {
		out.Bands = append(out.Bands, buildBand(i, e))
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildBand(i int, e lod.Entry) Band {
	b := Band{
		Index:       i,
		Layer:       layerName(e),
		Threshold:   e.Threshold,
		Renderables: len(e.Renderables),
		Tiles:       []Tile{},
	}
	if e.Layer == nil {
		return b
	}
	for _, n := range e.Layer.Children() {
		t := Tile{
			ID:       n.ID,
			Name:     n.Name,
			Position: [3]float64{n.Position.X, n.Position.Y, n.Position.Z},
			Scale:    [3]float64{n.Scale.X, n.Scale.Y, n.Scale.Z},
		}
		if rd := n.Renderable(); rd != nil {
			t.Model = rd.ModelName()
		}
		if c, ok := n.Color(); ok {
			t.Color = &c
		}
		b.Tiles = append(b.Tiles, t)
	}
	return b
}
