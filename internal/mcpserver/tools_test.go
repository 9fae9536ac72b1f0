package mcpserver

import (
	"context"
	"strings"
	"testing"

	"case-cli/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	return NewBackend(store.Store{Dir: t.TempDir()}, nil)
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("result is nil")
	}
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) string {
	t.Helper()
	r, err := h(context.Background(), makeReq(args))
	mustNotError(t, r, err)
	return resultText(r)
}

func TestDefinitions(t *testing.T) {
	b := newTestBackend(t)
	cases := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewShowTool(b).Definition(), "outline_show", nil},
		{NewAddTool(b).Definition(), "outline_add", []string{"kind", "name"}},
		{NewUpdateTool(b).Definition(), "outline_update", []string{"handle"}},
		{NewMoveTool(b).Definition(), "outline_move", []string{"handle"}},
		{NewRemoveTool(b).Definition(), "outline_remove", []string{"handle"}},
	}
	for _, tc := range cases {
		if tc.def.Name != tc.name {
			t.Errorf("tool name = %q, want %q", tc.def.Name, tc.name)
		}
		for _, r := range tc.required {
			if _, ok := tc.def.InputSchema.Properties[r]; !ok {
				t.Errorf("%s: missing %q parameter", tc.name, r)
			}
			found := false
			for _, got := range tc.def.InputSchema.Required {
				if got == r {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: %q should be required", tc.name, r)
			}
		}
	}
}

func TestShowEmptyStoreSeedsInbox(t *testing.T) {
	b := newTestBackend(t)
	text := call(t, NewShowTool(b).Handle, map[string]interface{}{})
	if !strings.Contains(text, "[medium] Inbox  [n0]") {
		t.Errorf("expected seeded inbox, got: %s", text)
	}
}

func TestAddMoveRemove(t *testing.T) {
	b := newTestBackend(t)
	add := NewAddTool(b)

	text := call(t, add.Handle, map[string]interface{}{"kind": "group", "name": "Work", "priority": "high"})
	if !strings.Contains(text, `Added group "Work" as n1`) || !strings.Contains(text, "Path: Inbox > Work") {
		t.Errorf("unexpected add result: %s", text)
	}
	call(t, add.Handle, map[string]interface{}{"kind": "task", "name": "report", "parent": "n1", "due": "2024-03-01"})
	call(t, add.Handle, map[string]interface{}{"kind": "task", "name": "call mom"})

	text = call(t, NewMoveTool(b).Handle, map[string]interface{}{"handle": "n3", "to": "n1"})
	if !strings.Contains(text, "Path: Inbox > Work > call mom") {
		t.Errorf("unexpected move result: %s", text)
	}

	text = call(t, NewRemoveTool(b).Handle, map[string]interface{}{"handle": "n1", "mode": "lift"})
	if !strings.Contains(text, `Removed group "Work" (n1)`) {
		t.Errorf("unexpected remove result: %s", text)
	}

	text = call(t, NewShowTool(b).Handle, map[string]interface{}{})
	want := "[medium] Inbox  [n0]\n├── report (due 2024-03-01)  [n2]\n└── call mom  [n3]\n"
	if text != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, text)
	}
}

func TestUpdateOnlyTouchesPassedFields(t *testing.T) {
	b := newTestBackend(t)
	call(t, NewAddTool(b).Handle, map[string]interface{}{"kind": "task", "name": "report", "due": "2024-03-01", "description": "draft"})

	update := NewUpdateTool(b)
	call(t, update.Handle, map[string]interface{}{"handle": "n1", "name": "final report"})

	text := call(t, NewShowTool(b).Handle, map[string]interface{}{"view": "json"})
	for _, want := range []string{`"name": "final report"`, `"due": "20240301000000"`, `"description": "draft"`} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in %s", want, text)
		}
	}

	r, err := update.Handle(context.Background(), makeReq(map[string]interface{}{"handle": "n1", "priority": "high"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsError || !strings.Contains(resultText(r), "not a group") {
		t.Errorf("expected kind error, got: %s", resultText(r))
	}
}

func TestErrorsAreToolResults(t *testing.T) {
	b := newTestBackend(t)
	cases := []struct {
		name string
		h    func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args map[string]interface{}
	}{
		{"add without kind", NewAddTool(b).Handle, map[string]interface{}{"name": "x"}},
		{"add bad due", NewAddTool(b).Handle, map[string]interface{}{"kind": "task", "name": "x", "due": "tomorrow"}},
		{"move unknown handle", NewMoveTool(b).Handle, map[string]interface{}{"handle": "n42", "root": true}},
		{"move both targets", NewMoveTool(b).Handle, map[string]interface{}{"handle": "n0", "to": "n0", "root": true}},
		{"move into self", NewMoveTool(b).Handle, map[string]interface{}{"handle": "n0", "to": "n0"}},
		{"remove bad mode", NewRemoveTool(b).Handle, map[string]interface{}{"handle": "n0", "mode": "explode"}},
		{"show bad view", NewShowTool(b).Handle, map[string]interface{}{"view": "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.h(context.Background(), makeReq(tc.args))
			if err != nil {
				t.Fatalf("handlers report failures as tool errors, got: %v", err)
			}
			if !r.IsError {
				t.Fatalf("expected tool error, got: %s", resultText(r))
			}
		})
	}
}

func TestNewBuildsServer(t *testing.T) {
	if s := New(newTestBackend(t)); s == nil {
		t.Fatal("expected a server")
	}
}
