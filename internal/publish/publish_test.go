package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"
)

func fixture(t *testing.T) (*outline.Outline, tree.Handle) {
	t.Helper()
	o := outline.New()
	root, _ := o.Root()
	work, err := o.AddGroup(root, model.Group{Name: "Work", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatalf("add group: %v", err)
	}
	due, _ := model.ParseDue("2024-03-01")
	if _, err := o.AddTask(work, model.Task{Name: "report", Due: due, Description: "# Q1\n\nnumbers"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := o.AddTask(root, model.Task{Name: "call mom"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	old, _ := o.AddGroup(root, model.Group{Name: "Old", Priority: model.PriorityLow})
	if _, err := o.AddTask(old, model.Task{Name: "stale"}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := o.Remove(old, tree.OrphanChildren); err != nil {
		t.Fatalf("remove: %v", err)
	}
	return o, work
}

func TestRenderOutlineMarkdown(t *testing.T) {
	t.Parallel()
	o, _ := fixture(t)

	got := RenderOutlineMarkdown(o, RenderOptions{IncludeDescriptions: true})
	want := "# Inbox\n\nPriority: medium\n\n" +
		"- **Work** (high)\n" +
		"  - report (due 2024-03-01)\n" +
		"    > # Q1\n" +
		"    >\n" +
		"    > numbers\n" +
		"- call mom\n" +
		"\n## Detached\n\n" +
		"- stale\n"
	if got != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", got, want)
	}

	plain := RenderOutlineMarkdown(o, RenderOptions{})
	if strings.Contains(plain, "numbers") {
		t.Fatalf("expected descriptions omitted, got:\n%s", plain)
	}
}

func TestRenderSubtreeMarkdown(t *testing.T) {
	t.Parallel()
	o, work := fixture(t)

	got, err := RenderSubtreeMarkdown(o, work, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "# Work\n\nPriority: high\n\n- report (due 2024-03-01)\n"; got != want {
		t.Fatalf("unexpected markdown:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteOutline_RefusesOverwrite(t *testing.T) {
	t.Parallel()
	o, work := fixture(t)
	dir := t.TempDir()

	res, err := WriteOutline(o, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(res.Written) != 1 || res.Written[0] != filepath.Join(dir, "outline.md") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := WriteOutline(o, dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error when file exists")
	}
	if _, err := WriteOutline(o, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	res, err = WriteSubtree(o, work, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write subtree: %v", err)
	}
	b, err := os.ReadFile(res.Written[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Work\n") {
		t.Fatalf("unexpected subtree file: %s", b)
	}
	if filepath.Base(res.Written[0]) != work.String()+".md" {
		t.Fatalf("unexpected subtree path: %s", res.Written[0])
	}
}

func TestWriteOutline_MissingDir(t *testing.T) {
	t.Parallel()
	o, _ := fixture(t)
	if _, err := WriteOutline(o, "  ", WriteOptions{}); err == nil {
		t.Fatalf("expected missing --to error")
	}
}
