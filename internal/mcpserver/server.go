// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/recordservice"
	"github.com/starford/ansuz/internal/storage"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *recordservice.Service
	store storage.Provider
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *recordservice.Service, store storage.Provider) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Full-text search through record titles, bodies, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read the raw Markdown source of a record by its ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record ID (filename without extension)")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List all records with their status, category, and title."),
		mcp.WithString("status", mcp.Description("Optional status filter (proposed, accepted, deprecated, superseded)")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the record relationship graph as JSON (nodes and edges)."),
	), s.getGraph)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Get aggregate statistics over the record archive."),
	), s.getStats)

	s.mcp.AddTool(mcp.NewTool("validate_records",
		mcp.WithDescription("Run validation rules over every record and report issues."),
	), s.validateRecords)

	s.mcp.AddTool(mcp.NewTool("get_related",
		mcp.WithDescription("Find all records that declare a relationship to the given record."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record ID to find incoming relationships for")),
	), s.getRelated)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical Ansuz record format contract. "+
			"Call this before authoring records to ensure correct structure."),
	), s.getRecordContract)

	// Resource: record format contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical frontmatter record format that all records must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

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

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetRecord(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	data, err := s.store.Read(detail.Path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := ""
	if v, err := req.RequireString("status"); err == nil {
		status = v
	}

	var lines []string
	for _, rec := range s.svc.Records(ctx) {
		if status != "" && rec.Status().String() != status {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%s",
			rec.ID, rec.Status(), rec.Meta.Category, rec.Title()))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no records found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Graph(ctx), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.svc.Stats(ctx).Summary()), nil
}

func (s *Server) validateRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report := s.svc.ValidateAll(ctx)
	if report.IsEmpty() {
		return mcp.NewToolResultText("all records passed validation"), nil
	}
	var lines []string
	for _, issue := range report.Issues() {
		lines = append(lines, issue.String())
	}
	lines = append(lines, fmt.Sprintf("%d errors, %d warnings", report.ErrorCount(), report.WarningCount()))
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getRelated(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetRecord(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	if len(detail.RelatedFrom) == 0 {
		return mcp.NewToolResultText("no incoming relationships found"), nil
	}
	return mcp.NewToolResultText(strings.Join(detail.RelatedFrom, "\n")), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
