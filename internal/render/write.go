package render

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// WrittenFile reports one output of Write.
type WrittenFile struct {
	Format  Format
	Path    string
	Changed bool
}

// Write renders s in each format and writes the results into dir. Files
// whose content is unchanged are left untouched; changed files are replaced
// atomically.
func Write(s site.Site, dir string, formats []Format) ([]WrittenFile, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.FileSystemError("failed to create output directory").WithCause(err).
			WithContext("path", dir).
			Build()
	}

	out := make([]WrittenFile, 0, len(formats))
	for _, f := range formats {
		data, err := Render(s, f)
		if err != nil {
			return out, errors.RenderError("failed to render configuration").WithCause(err).
				Fatal().
				WithContext("format", string(f)).
				Build()
		}
		target := filepath.Join(dir, f.FileName())
		changed, err := writeIfChanged(target, data)
		if err != nil {
			return out, errors.FileSystemError("failed to write rendered configuration").WithCause(err).
				WithContext("path", target).
				Build()
		}
		out = append(out, WrittenFile{Format: f, Path: target, Changed: changed})
	}
	return out, nil
}

func writeIfChanged(path string, data []byte) (bool, error) {
	// #nosec G304 - path is derived from configured output directory
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return false, err
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return false, err
	}
	// fsync + rename
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return false, err
	}
	return true, nil
}
