// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Studio toolkit — reflections and the album catalog — for LLM
// integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/auralis/elysia/internal/catalog"
	"github.com/auralis/elysia/internal/notes"
)

// Server wraps the MCP server with Studio tools.
type Server struct {
	mcp   *server.MCPServer
	notes *notes.Store
	cat   *catalog.Catalog
}

// New creates a new MCP server with all Studio tools registered.
func New(noteStore *notes.Store, cat *catalog.Catalog) *Server {
	s := &Server{notes: noteStore, cat: cat}

	s.mcp = server.NewMCPServer(
		"Elysia",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_reflections",
		mcp.WithDescription("List all Elysia reflections, newest first, as id/title/author lines."),
	), s.listReflections)

	s.mcp.AddTool(mcp.NewTool("read_reflection",
		mcp.WithDescription("Read one reflection as JSON, including bilingual fields and album meta."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reflection id")),
	), s.readReflection)

	s.mcp.AddTool(mcp.NewTool("save_reflection",
		mcp.WithDescription("Save a new reflection to the Elysia board. "+
			"Content MUST follow the reflection format. Read it first via the "+
			"get_reflection_contract tool or the elysia://reflection-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Reflection title")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Reflection body text")),
		mcp.WithString("author", mcp.Description("Author display name (defaults to Muse)")),
		mcp.WithString("albumSlug", mcp.Description("Optional catalog slug the reflection responds to")),
	), s.saveReflection)

	s.mcp.AddTool(mcp.NewTool("lookup_album",
		mcp.WithDescription("Look up an album in the catalog by slug or title."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Album slug or title")),
	), s.lookupAlbum)

	s.mcp.AddTool(mcp.NewTool("get_reflection_contract",
		mcp.WithDescription("Returns the canonical reflection format. "+
			"Call this before saving reflections to ensure correct structure."),
	), s.getReflectionContract)

	// Resource: reflection format contract.
	s.mcp.AddResource(
		mcp.NewResource("elysia://reflection-format", "Reflection Format Contract",
			mcp.WithResourceDescription("Canonical reflection structure that all saved reflections must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func (s *Server) listReflections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := s.notes.All()
	if len(all) == 0 {
		return mcp.NewToolResultText("no reflections yet"), nil
	}
	var b strings.Builder
	for _, n := range all {
		author := n.Author
		if author == "" {
			author = "anonymous"
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", n.ID, n.Title, author)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readReflection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveReflection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft := notes.Draft{Title: title, Body: body, Author: "Muse"}
	if author, err := req.RequireString("author"); err == nil && author != "" {
		draft.Author = author
	}
	if slug, err := req.RequireString("albumSlug"); err == nil && slug != "" {
		album, ok := s.cat.BySlug(slug)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown album slug: %s", slug)), nil
		}
		draft.AlbumSlug = album.Slug
		draft.Meta = &notes.Meta{
			AlbumKey:    album.Slug,
			SourceTitle: album.Title,
			Youtube:     album.Links.Youtube,
			Slug:        album.Slug,
			CatalogNo:   album.CatalogueNo,
		}
	}

	id, err := s.notes.Save(draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", id)), nil
}

func (s *Server) lookupAlbum(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	album, ok := s.cat.BySlug(query)
	if !ok {
		album, ok = s.cat.ByTitle(query)
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no album matches %q", query)), nil
	}
	out, _ := json.MarshalIndent(album, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getReflectionContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ReflectionContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "elysia://reflection-format",
			MIMEType: "text/markdown",
			Text:     ReflectionContract,
		},
	}, nil
}
