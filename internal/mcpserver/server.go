// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Visper journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/visperhq/visper/internal/journal"
	"github.com/visperhq/visper/internal/models"
	"github.com/visperhq/visper/internal/store"
)

// Server wraps the MCP server with Visper tools. All tools act on behalf
// of the single configured local user.
type Server struct {
	mcp    *server.MCPServer
	svc    *journal.Service
	userID string
}

// New creates a new MCP server with all Visper tools registered.
func New(svc *journal.Service, userID string) *Server {
	s := &Server{svc: svc, userID: userID}

	s.mcp = server.NewMCPServer(
		"Visper",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("capture_note",
		mcp.WithDescription("Capture a thought as a new journal note entry."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The note text to capture")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags")),
	), s.captureNote)

	s.mcp.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List journal entries, newest first."),
		mcp.WithString("type", mcp.Description("Optional type filter: note, url or image")),
		mcp.WithString("tag", mcp.Description("Optional exact tag filter")),
		mcp.WithNumber("limit", mcp.Description("Max entries to return (default 50)")),
	), s.listEntries)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Case-insensitive substring search across entry text, summaries, URL titles and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Max entries to scan (default 50)")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("summarize_url",
		mcp.WithDescription("Fetch a web page and condense it into a summary with key points, quotes and tags."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to fetch and summarize")),
	), s.summarizeURL)

	s.mcp.AddTool(mcp.NewTool("export_history",
		mcp.WithDescription("Render the full journal as a self-contained HTML timeline document."),
		mcp.WithBoolean("include_images", mcp.Description("Embed image URLs in the document (default true)")),
	), s.exportHistory)

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

func (s *Server) captureNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var tags []string
	for _, tag := range strings.Split(req.GetString("tags", ""), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	entry, err := s.svc.CreateEntry(ctx, s.userID, &journal.CreateEntryInput{
		Type:    models.TypeNote,
		RawText: text,
		Tags:    tags,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("captured: %s", entry.ID)), nil
}

func (s *Server) listEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := store.Filter{
		Type:  models.EntryType(req.GetString("type", "")),
		Tag:   req.GetString("tag", ""),
		Limit: int(req.GetFloat("limit", 0)),
	}

	entries, err := s.svc.ListEntries(ctx, s.userID, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, err := s.svc.SearchEntries(ctx, s.userID, query, store.Filter{
		Limit: int(req.GetFloat("limit", 0)),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) summarizeURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.SummarizeURL(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) exportHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	includeImages := req.GetBool("include_images", true)

	html, filename, err := s.svc.ExportHistory(ctx, s.userID, includeImages)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", filename, html)), nil
}
