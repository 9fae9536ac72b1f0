// Package mcpserver exposes the outline to agents over the Model Context
// Protocol (stdio transport).
package mcpserver

import (
	"context"
	"strings"
	"sync"

	"case-cli/internal/logging"
	"case-cli/internal/outline"
	"case-cli/internal/store"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Backend serializes tool calls against one store. Every call loads the
// outline fresh, so edits made from the TUI or CLI in between are seen.
type Backend struct {
	mu    sync.Mutex
	store store.Store
	log   logrus.FieldLogger
}

func NewBackend(s store.Store, log logrus.FieldLogger) *Backend {
	if log == nil {
		log = logging.Discard()
	}
	return &Backend{store: s, log: log}
}

func (b *Backend) read(ctx context.Context, fn func(o *outline.Outline) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, err := b.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(o)
}

// write applies fn and saves; nothing is saved when fn fails.
func (b *Backend) write(ctx context.Context, op string, fn func(o *outline.Outline) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, err := b.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(o); err != nil {
		b.log.WithFields(logrus.Fields{"op": op, "via": "mcp"}).WithError(err).Warn("tool call rejected")
		return err
	}
	if err := b.store.Save(ctx, o); err != nil {
		return err
	}
	b.log.WithFields(logrus.Fields{"op": op, "via": "mcp", "nodes": o.Len()}).Info("tool call applied")
	return nil
}

// New creates the MCP server with every outline tool registered.
func New(b *Backend) *server.MCPServer {
	s := server.NewMCPServer(
		"case",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions()),
	)

	show := NewShowTool(b)
	s.AddTool(show.Definition(), show.Handle)

	add := NewAddTool(b)
	s.AddTool(add.Definition(), add.Handle)

	update := NewUpdateTool(b)
	s.AddTool(update.Definition(), update.Handle)

	move := NewMoveTool(b)
	s.AddTool(move.Definition(), move.Handle)

	remove := NewRemoveTool(b)
	s.AddTool(remove.Definition(), remove.Handle)

	return s
}

// Serve blocks serving s on stdin/stdout.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func instructions() string {
	return strings.TrimSpace(`
CASE keeps one outline of groups and tasks. Every node has a handle such as
"n3" or "n3.2"; handles stay valid until the node is removed.

Call outline_show first to see the tree and its handles. Then use
outline_add, outline_update, outline_move and outline_remove. Removing a
node with mode "lift" moves its children up to its parent; "orphan" detaches
them; "drop" deletes the whole subtree.
`)
}
