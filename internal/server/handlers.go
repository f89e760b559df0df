package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/superpixel-graph/internal/graph"
	"github.com/ironsheep/superpixel-graph/internal/imaging"
	"github.com/ironsheep/superpixel-graph/internal/pipeline"
	"github.com/ironsheep/superpixel-graph/internal/segment"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "graph_build").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

var errPathRequired = errors.New("path is required")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Graph Construction
	case "graph_segment":
		return s.handleGraphSegment(args)
	case "graph_regions":
		return s.handleGraphRegions(args)
	case "graph_build":
		return s.handleGraphBuild(args)

	// Settings
	case "graph_classes":
		return s.handleGraphClasses(args)
	case "graph_config":
		return s.handleGraphConfig(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Graph Construction Handlers ===

// segmentationArgs are the per-call overrides shared by the graph tools.
// Pointers distinguish "not given" from an explicit zero such as sigma 0.
type segmentationArgs struct {
	Path        string   `json:"path"`
	Regions     *int     `json:"regions"`
	Sigma       *float64 `json:"sigma"`
	Compactness *float64 `json:"compactness"`
}

func (a segmentationArgs) overrides() bool {
	return a.Regions != nil || a.Sigma != nil || a.Compactness != nil
}

// builderFor returns the shared builder, or a one-off builder with the
// call's overrides applied. Both share the image cache.
func (s *Server) builderFor(a segmentationArgs) (*pipeline.Builder, error) {
	if !a.overrides() {
		return s.builder, nil
	}
	cfg := s.segmentConfig(a)
	return pipeline.NewBuilder(cfg,
		pipeline.WithCache(s.cache),
		pipeline.WithLogger(s.log),
		pipeline.WithMaxDimension(s.cfg.Pipeline.MaxDimension),
	)
}

func (s *Server) segmentConfig(a segmentationArgs) segment.Config {
	cfg := s.cfg.SegmentConfig()
	if a.Regions != nil {
		cfg.Segments = *a.Regions
	}
	if a.Sigma != nil {
		cfg.Sigma = *a.Sigma
	}
	if a.Compactness != nil {
		cfg.Compactness = *a.Compactness
	}
	return cfg
}

type graphSegmentArgs struct {
	segmentationArgs
	IncludeLabels bool `json:"include_labels"`
}

// SegmentResult describes a segmentation.
type SegmentResult struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Regions int `json:"regions"`

	// Sizes holds the pixel count of each region, indexed by id.
	Sizes []int `json:"sizes"`

	// Labels is the [y][x] label grid, present only on request.
	Labels [][]int `json:"labels,omitempty"`
}

func (s *Server) handleGraphSegment(args json.RawMessage) (interface{}, error) {
	var a graphSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}

	r, err := s.builder.Load(a.Path)
	if err != nil {
		return nil, err
	}
	m, err := segment.Segment(r, s.segmentConfig(a.segmentationArgs))
	if err != nil {
		return nil, err
	}

	ix := m.Index()
	res := &SegmentResult{
		Width:   m.Width(),
		Height:  m.Height(),
		Regions: ix.Len(),
		Sizes:   make([]int, ix.Len()),
	}
	for i, id := range ix.IDs() {
		res.Sizes[i] = len(ix.Pixels(id))
	}
	if a.IncludeLabels {
		res.Labels = m.Rows()
	}
	return res, nil
}

// RegionInfo is one region of a graph_regions response.
type RegionInfo struct {
	ID           int       `json:"id"`
	Color        []float64 `json:"color"`
	Hex          string    `json:"hex"`
	Area         int       `json:"area"`
	Eccentricity float64   `json:"eccentricity"`
	AspectRatio  float64   `json:"aspect_ratio"`
	Solidity     float64   `json:"solidity"`
	MajorAxis    float64   `json:"major_axis_length"`
	MinorAxis    float64   `json:"minor_axis_length"`
	Components   int       `json:"components"`
	Neighbors    []int     `json:"neighbors"`
}

// RegionsResult is the response of graph_regions.
type RegionsResult struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Channels   int          `json:"channels"`
	Regions    []RegionInfo `json:"regions"`
	Edges      int          `json:"edges"`
	Components int          `json:"graph_components"`
}

func (s *Server) handleGraphRegions(args json.RawMessage) (interface{}, error) {
	var a segmentationArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}

	b, err := s.builderFor(a)
	if err != nil {
		return nil, err
	}
	res, err := b.ProcessFile(a.Path)
	if err != nil {
		return nil, err
	}

	out := &RegionsResult{
		Width:      res.Labels.Width(),
		Height:     res.Labels.Height(),
		Channels:   res.Graph.Channels(),
		Regions:    make([]RegionInfo, 0, len(res.Features)),
		Edges:      res.Graph.EdgeCount(),
		Components: len(res.Graph.Components()),
	}
	for _, f := range res.Features {
		out.Regions = append(out.Regions, RegionInfo{
			ID:           f.ID,
			Color:        f.Color,
			Hex:          imaging.Hex(f.Color),
			Area:         f.Area,
			Eccentricity: f.Eccentricity,
			AspectRatio:  f.AspectRatio,
			Solidity:     f.Solidity,
			MajorAxis:    f.MajorAxis,
			MinorAxis:    f.MinorAxis,
			Components:   f.Components,
			Neighbors:    res.Graph.Neighbors(f.ID),
		})
	}
	return out, nil
}

type graphBuildArgs struct {
	segmentationArgs
	Label string `json:"label"`
}

// BuildResult is the response of graph_build.
type BuildResult struct {
	Path    string        `json:"path"`
	Label   string        `json:"label,omitempty"`
	Record  *graph.Record `json:"record"`
	Elapsed string        `json:"elapsed"`
}

func (s *Server) handleGraphBuild(args json.RawMessage) (interface{}, error) {
	var a graphBuildArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errPathRequired
	}

	var opts []graph.Option
	out := &BuildResult{Path: a.Path}
	if a.Label != "" {
		c, err := graph.ParseClass(a.Label)
		if err != nil {
			return nil, err
		}
		opts = append(opts, graph.WithLabel(c))
		out.Label = c.String()
	}

	b, err := s.builderFor(a.segmentationArgs)
	if err != nil {
		return nil, err
	}
	res, err := b.ProcessFile(a.Path, opts...)
	if err != nil {
		return nil, err
	}
	out.Record = res.Record
	out.Elapsed = res.Elapsed.String()
	return out, nil
}

// === Settings Handlers ===

// ClassInfo names one label index.
type ClassInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

func (s *Server) handleGraphClasses(_ json.RawMessage) (interface{}, error) {
	out := make([]ClassInfo, 0, len(s.cfg.Classes))
	for _, name := range s.cfg.Classes {
		c, err := graph.ParseClass(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ClassInfo{Index: int(c), Name: c.String()})
	}
	return out, nil
}

func (s *Server) handleGraphConfig(_ json.RawMessage) (interface{}, error) {
	return s.cfg, nil
}
