package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lodgrid/pkg/buildinfo"
	"github.com/matzehuels/lodgrid/pkg/config"
	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/pipeline"
	"github.com/matzehuels/lodgrid/pkg/tiling"
)

// maxBodyBytes bounds POST /v1/maps request bodies.
const maxBodyBytes = 1 << 20

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatTree: "image/svg+xml",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
	Time   string         `json:"time"`
}

type planResponse struct {
	Cells      int    `json:"cells"`
	Method     string `json:"method"`
	Generable  bool   `json:"generable"`
	Border     int    `json:"border"`
	Center     int    `json:"center"`
	BorderSide int    `json:"border_side,omitempty"`
	CenterSide int    `json:"center_side,omitempty"`
}

type statsResponse struct {
	Layers     int     `json:"layers"`
	Cells      int     `json:"cells"`
	GenerateMS float64 `json:"generate_ms"`
	BandMS     float64 `json:"band_ms"`
	RenderMS   float64 `json:"render_ms"`
}

type mapResponse struct {
	RunID    string        `json:"run_id"`
	MapHash  string        `json:"map_hash"`
	CacheHit bool          `json:"cache_hit"`
	Stats    statsResponse `json:"stats"`
	// Artifacts holds JSON exports inline, text formats as strings and
	// binary formats base64 encoded.
	Artifacts map[string]json.RawMessage `json:"artifacts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Build:  buildinfo.Get(),
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": pipeline.FormatNames()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "count")
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "count %q is not an integer", raw))
		return
	}
	plan, err := tiling.PlanFor(n)
	writeJSON(w, http.StatusOK, planResponse{
		Cells:      n,
		Method:     plan.Method.String(),
		Generable:  err == nil,
		Border:     plan.Border,
		Center:     plan.Center,
		BorderSide: plan.BorderSide,
		CenterSide: plan.CenterSide,
	})
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad request body: %v", err))
		return
	}
	s.capCells(&opts)

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := mapResponse{
		RunID:    result.RunID,
		MapHash:  result.MapHash,
		CacheHit: result.CacheHit,
		Stats: statsResponse{
			Layers:     result.Stats.Layers,
			Cells:      result.Stats.Cells,
			GenerateMS: millis(result.Stats.GenerateTime),
			BandMS:     millis(result.Stats.BandTime),
			RenderMS:   millis(result.Stats.RenderTime),
		},
		Artifacts: make(map[string]json.RawMessage, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		raw, err := encodeArtifact(format, data)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Artifacts[format] = raw
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMapArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	s.capCells(&opts)

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Map-Hash", result.MapHash)
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// capCells applies the server's tile budget. Requests may lower it but
// never raise or disable it.
func (s *Server) capCells(opts *pipeline.Options) {
	limit := s.cfg.MaxCells
	if limit <= 0 {
		return
	}
	if opts.MaxCells <= 0 || opts.MaxCells > limit {
		opts.MaxCells = limit
	}
}

// optionsFromQuery reads map options from URL parameters named like the
// JSON fields of pipeline.Options.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error
	bad := func(name string, cause error) error {
		return errors.Wrap(errors.ErrCodeInvalidInput, cause, "bad %s parameter %q", name, q.Get(name))
	}

	if v := q.Get("counts"); v != "" {
		if opts.Counts, err = config.ParseInts(v); err != nil {
			return opts, bad("counts", err)
		}
	}
	if v := q.Get("thresholds"); v != "" {
		if opts.Thresholds, err = config.ParseFloats(v); err != nil {
			return opts, bad("thresholds", err)
		}
	}
	floats := map[string]*float64{"map_size": &opts.MapSize, "tile_size": &opts.TileSize}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				return opts, bad(name, err)
			}
		}
	}
	ints := map[string]*int{"max_cells": &opts.MaxCells, "band": &opts.Band, "size": &opts.Size}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.Atoi(v); err != nil {
				return opts, bad(name, err)
			}
		}
	}
	bools := map[string]*bool{"colorize": &opts.Colorize, "outline": &opts.Outline}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			if *dst, err = strconv.ParseBool(v); err != nil {
				return opts, bad(name, err)
			}
		}
	}
	return opts, nil
}

func encodeArtifact(format string, data []byte) (json.RawMessage, error) {
	switch format {
	case pipeline.FormatJSON:
		return json.RawMessage(data), nil
	case pipeline.FormatPNG, pipeline.FormatPDF:
		return json.Marshal(data)
	}
	return json.Marshal(string(data))
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
