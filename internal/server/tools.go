package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// segmentationProperties returns the schema shared by the graph tools.
func segmentationProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"regions": map[string]interface{}{
			"type":        "integer",
			"description": "Approximate number of superpixels. Defaults to the server configuration (50).",
			"minimum":     1,
		},
		"sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-smoothing sigma in pixels; 0 disables smoothing. Defaults to the server configuration (5).",
			"minimum":     0,
		},
		"compactness": map[string]interface{}{
			"type":        "number",
			"description": "Weight of spatial proximity against color similarity. Defaults to the server configuration (1).",
			"minimum":     0,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	segmentProps := segmentationProperties()
	segmentProps["include_labels"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include the full [y][x] label grid in the response",
		"default":     false,
	}

	buildProps := segmentationProperties()
	buildProps["label"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional scene class for the graph label",
		"enum":        []string{"Buildings", "Forest", "Glacier", "Mountain", "Sea", "Street"},
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and channel count. The image is cached for subsequent graph operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Graph Construction
		{
			Name:        "graph_segment",
			Description: "Partition an image into superpixels and report the region count and sizes. Optionally returns the label grid.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": segmentProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "graph_regions",
			Description: "Segment an image and describe every superpixel: average color, eccentricity, aspect ratio, solidity and adjacent regions.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": segmentationProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "graph_build",
			Description: "Convert an image into a region adjacency graph record: node feature matrix, edge index and label, ready for a graph classifier.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": buildProps,
				"required":   []string{"path"},
			},
		},

		// Settings
		{
			Name:        "graph_classes",
			Description: "List the scene classes and their label indices.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "graph_config",
			Description: "Return the active configuration: segmentation settings, classes and the model hyperparameters carried with records.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
