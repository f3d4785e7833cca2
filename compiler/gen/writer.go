package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/domainschema/schema"
)

// Write renders the models of defs into dir on a bounded worker pool and
// returns the paths written, sorted. A file that fails to format is kept
// next to its target with an .error suffix.
func (g *Generator) Write(ctx context.Context, dir string, defs ...schema.Definition) ([]string, error) {
	files, err := g.Files(defs...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &GenerationError{Phase: PhaseWrite, File: dir, Cause: err}
	}
	var (
		mu      sync.Mutex
		written = make([]string, 0, len(files))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, f.Name)
			if err := g.writeFile(path, f); err != nil {
				return err
			}
			mu.Lock()
			written = append(written, path)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(written)
	return written, nil
}

func (g *Generator) writeFile(path string, f *File) error {
	var buf bytes.Buffer
	if err := f.Code.Render(&buf); err != nil {
		return &GenerationError{Phase: PhaseRender, Schema: f.Schema.Name(), File: path, Cause: err}
	}
	src, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		_ = os.WriteFile(path+".error", buf.Bytes(), 0o644)
		return &GenerationError{Phase: PhaseFormat, Schema: f.Schema.Name(), File: path, Cause: err}
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return &GenerationError{Phase: PhaseWrite, Schema: f.Schema.Name(), File: path, Cause: err}
	}
	g.cfg.Logger.Debug("gen write", "file", path, "bytes", len(src))
	return nil
}

// Source returns the formatted source of f.
func Source(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Code.Render(&buf); err != nil {
		return nil, &GenerationError{Phase: PhaseRender, Schema: f.Schema.Name(), File: f.Name, Cause: err}
	}
	src, err := imports.Process(f.Name, buf.Bytes(), nil)
	if err != nil {
		return nil, &GenerationError{Phase: PhaseFormat, Schema: f.Schema.Name(), File: f.Name, Cause: err}
	}
	return src, nil
}
