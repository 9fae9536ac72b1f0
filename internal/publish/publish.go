package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"case-cli/internal/outline"
	"case-cli/internal/tree"
)

type WriteOptions struct {
	IncludeDescriptions bool
	Overwrite           bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteOutline renders the outline to <toDir>/outline.md.
func WriteOutline(o *outline.Outline, toDir string, opt WriteOptions) (WriteResult, error) {
	if o == nil {
		return WriteResult{}, errors.New("missing outline")
	}
	toDir, err := cleanDir(toDir)
	if err != nil {
		return WriteResult{}, err
	}
	md := RenderOutlineMarkdown(o, RenderOptions{IncludeDescriptions: opt.IncludeDescriptions})
	return writeOne(filepath.Join(toDir, "outline.md"), md, opt)
}

// WriteSubtree renders the subtree at h to <toDir>/<handle>.md.
func WriteSubtree(o *outline.Outline, h tree.Handle, toDir string, opt WriteOptions) (WriteResult, error) {
	if o == nil {
		return WriteResult{}, errors.New("missing outline")
	}
	toDir, err := cleanDir(toDir)
	if err != nil {
		return WriteResult{}, err
	}
	md, err := RenderSubtreeMarkdown(o, h, RenderOptions{IncludeDescriptions: opt.IncludeDescriptions})
	if err != nil {
		return WriteResult{}, err
	}
	return writeOne(filepath.Join(toDir, h.String()+".md"), md, opt)
}

func cleanDir(toDir string) (string, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return "", errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return "", err
	}
	return toDir, nil
}

func writeOne(path, md string, opt WriteOptions) (WriteResult, error) {
	if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
