package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key kinds. A map key hashes MapKeyOpts; an artifact key hashes the map's
// hash together with ArtifactKeyOpts, so re-rendering a cached map at a new
// size or band never collides with an earlier rendering.
const (
	kindMap      = "map"
	kindArtifact = "artifact"
)

// MapKeyOpts identifies a generated map. Every field that changes the
// generated cells or bands must be listed here.
type MapKeyOpts struct {
	Counts     []int     `json:"counts"`
	Thresholds []float64 `json:"thresholds"`
	MapSize    float64   `json:"map_size"`
	TileSize   float64   `json:"tile_size"`
	Colorize   bool      `json:"colorize"`
}

// ArtifactKeyOpts identifies one rendering of a map.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Band    int    `json:"band"`
	Size    int    `json:"size"`
	Outline bool   `json:"outline"`
}

// Keyer builds cache keys.
type Keyer interface {
	// MapKey returns the key for a generated map export.
	MapKey(opts MapKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact of the map
	// identified by mapHash.
	ArtifactKey(mapHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MapKey implements Keyer.
func (DefaultKeyer) MapKey(opts MapKeyOpts) string {
	return kindMap + ":" + hashJSON(opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return kindArtifact + ":" + hashJSON([]any{mapHash, opts})
}

// Hash returns the hex SHA-256 of data. Runners hash the map key with it to
// name the map inside artifact keys and HTTP responses.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashJSON hashes the JSON form of v. Key options hold only numbers, bools
// and strings, so encoding cannot fail.
func hashJSON(v any) string {
	data, _ := json.Marshal(v)
	return Hash(data)
}
