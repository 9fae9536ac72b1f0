package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"case-cli/internal/model"
	"case-cli/internal/outline"
	"case-cli/internal/tree"

	"github.com/sirupsen/logrus"
)

// exportFormat versions the Export envelope.
const exportFormat = 1

// Export is the JSON document exchanged with other replicas.
type Export struct {
	Format     int                        `json:"format"`
	ReplicaID  string                     `json:"replicaId,omitempty"`
	ExportedAt time.Time                  `json:"exportedAt"`
	Tree       tree.Snapshot[model.Entry] `json:"tree"`
}

// WriteExport encodes o as an Export. With compact set, handles are
// renumbered densely first and the stored outline is left untouched.
func (s Store) WriteExport(w io.Writer, o *outline.Outline, compact bool) error {
	snap := o.Snapshot()
	if compact {
		c, err := outline.FromSnapshot(snap)
		if err != nil {
			return err
		}
		c.Tree().Compact()
		snap = c.Snapshot()
	}
	doc := Export{
		Format:     exportFormat,
		ReplicaID:  s.ReplicaID,
		ExportedAt: time.Now().UTC(),
		Tree:       snap,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadExport decodes and validates an Export.
func ReadExport(r io.Reader) (*outline.Outline, Export, error) {
	var doc Export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, doc, fmt.Errorf("decode export: %w", err)
	}
	if doc.Format != exportFormat {
		return nil, doc, fmt.Errorf("unsupported export format %d", doc.Format)
	}
	o, err := outline.FromSnapshot(doc.Tree)
	if err != nil {
		return nil, doc, err
	}
	return o, doc, nil
}

// ExportFile loads the stored outline and writes it to path atomically.
func (s Store) ExportFile(ctx context.Context, path string, compact bool) error {
	o, err := s.Load(ctx)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if err := s.WriteExport(f, o, compact); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	s.log().WithFields(logrus.Fields{"op": "export", "path": path, "nodes": o.Len()}).Info("outline exported")
	return nil
}

// ImportFile replaces the stored outline with the export at path. Nothing
// is written unless the export validates.
func (s Store) ImportFile(ctx context.Context, path string) (*outline.Outline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	o, doc, err := ReadExport(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if err := s.Save(ctx, o); err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"op": "import", "path": path, "nodes": o.Len(), "from": doc.ReplicaID}).Info("outline imported")
	return o, nil
}
