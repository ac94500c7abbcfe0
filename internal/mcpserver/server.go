// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes capture tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zyaga/clipnote/internal/index"
	"github.com/zyaga/clipnote/internal/pipeline"
	"github.com/zyaga/clipnote/internal/storage"
)

// Server wraps the MCP server with capture tools.
type Server struct {
	mcp   *server.MCPServer
	pipe  *pipeline.Pipeline
	store storage.Provider
	idx   index.CaptureIndex // nil when the index is disabled
}

// New creates a new MCP server with all capture tools registered.
func New(pipe *pipeline.Pipeline, store storage.Provider, idx index.CaptureIndex) *Server {
	s := &Server{pipe: pipe, store: store, idx: idx}

	s.mcp = server.NewMCPServer(
		"Clipnote",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("capture_text",
		mcp.WithDescription("Run a text through the capture pipeline: normalize, "+
			"classify, extract wikilink candidates and save an inbox note. "+
			"Duplicates and too-short texts are skipped."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw text to capture")),
	), s.captureText)

	s.mcp.AddTool(mcp.NewTool("search_captures",
		mcp.WithDescription("Full-text search through saved captures."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCaptures)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a saved inbox note."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Note filename (e.g. 2025-01-02_13-00-00_work_summary.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("recent_captures",
		mcp.WithDescription("List the most recently saved captures."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 20)")),
	), s.recentCaptures)

	s.mcp.AddTool(mcp.NewTool("linking_captures",
		mcp.WithDescription("Find captures whose wikilink candidates contain the given term."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Wikilink term to look up")),
	), s.linkingCaptures)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note file in the inbox directory. Unlike "+
			"recent_captures this reads the file system directly, so it also covers "+
			"notes present before the index existed."),
	), s.listNotes)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) captureText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.pipe.Run(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchCaptures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.idx == nil {
		return mcp.NewToolResultError("capture index is disabled"), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.idx.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(filename)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", filename)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) recentCaptures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.idx == nil {
		return mcp.NewToolResultError("capture index is disabled"), nil
	}
	limit := req.GetInt("limit", 20)
	rows, err := s.idx.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.store.List("")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(metas) == 0 {
		return mcp.NewToolResultText("inbox is empty"), nil
	}
	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) linkingCaptures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.idx == nil {
		return mcp.NewToolResultError("capture index is disabled"), nil
	}
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	files, err := s.idx.Linking(term)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(files) == 0 {
		return mcp.NewToolResultText("no captures link this term"), nil
	}
	return mcp.NewToolResultText(strings.Join(files, "\n")), nil
}
