package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/auralis/elysia/internal/kvstore"
	"github.com/auralis/elysia/internal/notes"
	"github.com/auralis/elysia/internal/testutil"
)

func testServer(t *testing.T) (*Server, *notes.Store) {
	t.Helper()
	store := notes.NewStore(kvstore.NewMemory())
	return New(store, testutil.TestCatalog(t)), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go offers no direct "call tool" test helper, so we call the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_reflections":
		result, err = srv.listReflections(ctx, req)
	case "read_reflection":
		result, err = srv.readReflection(ctx, req)
	case "save_reflection":
		result, err = srv.saveReflection(ctx, req)
	case "lookup_album":
		result, err = srv.lookupAlbum(ctx, req)
	case "get_reflection_contract":
		result, err = srv.getReflectionContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSaveAndReadReflection(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "save_reflection", map[string]interface{}{
		"title": "First Listen",
		"body":  "It opens like a sunrise.",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "saved: ") {
		t.Fatalf("save result = %q", text)
	}
	id := strings.TrimPrefix(text, "saved: ")

	note, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if note.Author != "Muse" {
		t.Errorf("author = %q, want Muse default", note.Author)
	}

	r = callTool(t, srv, "read_reflection", map[string]interface{}{"id": id})
	if r.IsError {
		t.Fatalf("read error: %q", resultText(r))
	}
	if !strings.Contains(resultText(r), "First Listen") {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestSaveReflectionWithAlbum(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "save_reflection", map[string]interface{}{
		"title":     "On Dawn Chorus",
		"body":      "The horns at 2:14.",
		"author":    "Studio",
		"albumSlug": "dawn-chorus",
	})
	id := strings.TrimPrefix(resultText(r), "saved: ")

	note, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if note.Author != "Studio" || note.AlbumSlug != "dawn-chorus" {
		t.Errorf("note = %+v", note)
	}
	if note.Meta == nil || note.Meta.AlbumKey != "dawn-chorus" || note.Meta.SourceTitle != "Dawn Chorus" {
		t.Errorf("meta = %+v", note.Meta)
	}
	if note.Meta.CatalogNo != "AUR-001" {
		t.Errorf("catalogNo = %q", note.Meta.CatalogNo)
	}
}

func TestSaveReflectionUnknownAlbum(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "save_reflection", map[string]interface{}{
		"title":     "t",
		"body":      "b",
		"albumSlug": "nope",
	})
	if !r.IsError {
		t.Error("expected error for unknown album slug")
	}
}

func TestListReflections(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "list_reflections", map[string]interface{}{})
	if resultText(r) != "no reflections yet" {
		t.Errorf("empty list = %q", resultText(r))
	}

	id, _ := store.Save(notes.Draft{Title: "t", Body: "b", Author: "mira"})
	r = callTool(t, srv, "list_reflections", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, id) || !strings.Contains(text, "mira") {
		t.Errorf("list = %q", text)
	}
}

func TestReadReflectionMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_reflection", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing reflection")
	}
}

func TestLookupAlbum(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "lookup_album", map[string]interface{}{"query": "aurora-veil"})
	if r.IsError || !strings.Contains(resultText(r), "Aurora Veil") {
		t.Errorf("slug lookup = %q", resultText(r))
	}
	r = callTool(t, srv, "lookup_album", map[string]interface{}{"query": "aurora veil"})
	if r.IsError || !strings.Contains(resultText(r), "aurora-veil") {
		t.Errorf("title lookup = %q", resultText(r))
	}
	r = callTool(t, srv, "lookup_album", map[string]interface{}{"query": "nothing"})
	if !r.IsError {
		t.Error("expected error for unknown album")
	}
}

func TestGetReflectionContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_reflection_contract", map[string]interface{}{})
	if resultText(r) != ReflectionContract {
		t.Error("contract tool should return the canonical contract")
	}
}
