// Package server exposes graph construction as MCP (Model Context Protocol)
// tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over stdio, one message per line:
//   - Input: requests on stdin
//   - Output: responses on stdout
//
// Logs go to stderr so they never interleave with responses.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Graph Construction:
//   - graph_segment: Superpixel segmentation summary, optionally the label grid
//   - graph_regions: Per-region features and neighbors
//   - graph_build: Numeric graph record for a classifier
//
// Settings:
//   - graph_classes: Scene classes and label indices
//   - graph_config: Active configuration
//
// The graph tools accept regions, sigma and compactness to override the
// configured segmentation for a single call.
//
// # Image Caching
//
// Images are cached by path for the lifetime of the process and shared by
// every tool, so loading an image once and then building several graphs
// from it reads the file a single time.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000, a short message, and the Go error string in data.
// Unparseable input lines get a -32700 parse error with a null id.
//
// # Usage
//
//	srv, err := server.New(config.Default(), logger)
//	if err != nil {
//	    return err
//	}
//	return srv.Run()
package server
