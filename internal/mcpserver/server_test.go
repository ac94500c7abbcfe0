package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zyaga/clipnote/internal/classify"
	"github.com/zyaga/clipnote/internal/history"
	"github.com/zyaga/clipnote/internal/index"
	"github.com/zyaga/clipnote/internal/note"
	"github.com/zyaga/clipnote/internal/pipeline"
	"github.com/zyaga/clipnote/internal/storage"
	"github.com/zyaga/clipnote/internal/terms"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	hist, err := history.Open(filepath.Join(dir, "_clip_history.json"), 2000)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "clipnote-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	opts := pipeline.Options{
		Rules:        classify.DefaultRules(),
		TagMode:      classify.TagModeSingle,
		FixedTags:    classify.DefaultFixedTags(),
		LinkMode:     note.LinkModeNever,
		Seeds:        terms.DefaultSeeds(),
		Stopwords:    terms.DefaultStopwords(),
		MaxWikilinks: 12,
		MinChars:     3,
		SummaryMax:   40,
	}
	pipe := pipeline.New(opts, store, hist, db, nil, nil)

	return New(pipe, store, db)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "capture_text":
		result, err = srv.captureText(ctx, req)
	case "search_captures":
		result, err = srv.searchCaptures(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "recent_captures":
		result, err = srv.recentCaptures(ctx, req)
	case "linking_captures":
		result, err = srv.linkingCaptures(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
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

func TestCaptureTextTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "capture_text", map[string]interface{}{
		"text": "明日の会議の議事録をまとめる",
	})
	text := resultText(r)
	if !strings.Contains(text, `"status": "saved"`) {
		t.Errorf("capture result = %q", text)
	}
	if !strings.Contains(text, `"category": "work"`) {
		t.Errorf("capture result = %q", text)
	}
}

func TestCaptureTextToolDuplicate(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "capture_text", map[string]interface{}{"text": "同じ内容を二回"})
	r := callTool(t, srv, "capture_text", map[string]interface{}{"text": "同じ内容を二回"})
	if !strings.Contains(resultText(r), "skipped_duplicate") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestCaptureTextToolMissingArg(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "capture_text", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error result for missing text")
	}
}

func TestReadNoteTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "capture_text", map[string]interface{}{
		"text": "読み返したいメモの本文",
	})
	out := resultText(r)
	// Pull the saved filename out of the JSON result.
	start := strings.Index(out, `"filename": "`)
	if start < 0 {
		t.Fatalf("no filename in %q", out)
	}
	rest := out[start+len(`"filename": "`):]
	filename := rest[:strings.Index(rest, `"`)]

	r = callTool(t, srv, "read_note", map[string]interface{}{"filename": filename})
	if !strings.Contains(resultText(r), "読み返したいメモの本文") {
		t.Errorf("note content = %q", resultText(r))
	}
}

func TestReadNoteToolMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"filename": "nope.md"})
	if !r.IsError {
		t.Error("expected error result for missing note")
	}
}

func TestSearchCapturesTool(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "capture_text", map[string]interface{}{
		"text": "Obsidian plugin settings to revisit later",
	})
	r := callTool(t, srv, "search_captures", map[string]interface{}{"query": "Obsidian"})
	if !strings.Contains(resultText(r), "Filename") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestRecentCapturesTool(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "capture_text", map[string]interface{}{"text": "最近のキャプチャ一覧に出るはず"})
	r := callTool(t, srv, "recent_captures", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Filename") {
		t.Errorf("recent result = %q", resultText(r))
	}
}

func TestListNotesTool(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	if resultText(r) != "inbox is empty" {
		t.Errorf("empty inbox result = %q", resultText(r))
	}

	callTool(t, srv, "capture_text", map[string]interface{}{"text": "一覧に出るはずのメモ"})
	r = callTool(t, srv, "list_notes", map[string]interface{}{})
	out := resultText(r)
	if !strings.HasSuffix(out, ".md") {
		t.Errorf("list result = %q", out)
	}
	if strings.Contains(out, "_clip_history") {
		t.Errorf("history file leaked into listing: %q", out)
	}
}

func TestLinkingCapturesToolEmpty(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "linking_captures", map[string]interface{}{"term": "unknown"})
	if resultText(r) != "no captures link this term" {
		t.Errorf("result = %q", resultText(r))
	}
}
