package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/metrics"
	"github.com/vanderheijden86/ccview/pkg/model"
	"github.com/vanderheijden86/ccview/pkg/results"
)

// ErrNothingToExport is returned by Export when the store holds no results.
var ErrNothingToExport = errors.New("no results to export")

// Renderer produces a data URI snapshot of a result graph.
type Renderer interface {
	Render(ctx context.Context, elements []model.Element) (string, error)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(ctx context.Context, elements []model.Element) (string, error)

// Render calls f.
func (f RenderFunc) Render(ctx context.Context, elements []model.Element) (string, error) {
	return f(ctx, elements)
}

// RenderError reports a snapshot failure for one result.
type RenderError struct {
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render graph for result %d: %v", e.Index+1, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// GenerateImages renders a snapshot for every result that has a graph, no
// error and no image yet, attaching each to the store. Results are rendered
// one at a time. A failed render is recorded and the loop moves on; only a
// cancelled ctx stops it early.
func GenerateImages(ctx context.Context, store *results.Store, r Renderer) []error {
	var errs []error
	for i := 0; i < store.Len(); i++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, _ := store.At(i)
		if !res.NeedsImage() {
			continue
		}
		uri, err := r.Render(ctx, res.Elements)
		if err != nil {
			debug.Log("export: image %d failed: %v", i, err)
			errs = append(errs, &RenderError{Index: i, Err: err})
			continue
		}
		store.AttachImage(i, uri)
	}
	debug.LogIf(len(errs) > 0, "export: %d of %d graph images failed", len(errs), store.Len())
	return errs
}

// Report describes a finished export.
type Report struct {
	Path          string
	Sections      int
	Images        int
	ImageFailures []error
}

// HasImageFailures reports whether any graph snapshot could not be produced.
func (r Report) HasImageFailures() bool {
	return len(r.ImageFailures) > 0
}

// Exporter writes analysis reports to a directory.
type Exporter struct {
	Dir      string
	Renderer Renderer

	// Now is used for the report date; nil means time.Now.
	Now func() time.Time
}

// Export generates missing graph images, renders the report and writes it
// to Dir/analysis_report.md. Image failures do not fail the export; they
// are returned in Report.ImageFailures and the affected sections are
// written without an image.
func (e *Exporter) Export(ctx context.Context, store *results.Store) (Report, error) {
	if store == nil || store.IsEmpty() {
		return Report{}, ErrNothingToExport
	}
	defer metrics.Timer(metrics.Export)()
	defer debug.LogEnterExit("export")()

	var rep Report
	if e.Renderer != nil {
		rep.ImageFailures = GenerateImages(ctx, store, e.Renderer)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	res := store.Results()
	md := GenerateMarkdown(res, store.Source(), now())
	for _, r := range res {
		if r.GraphImage != "" {
			rep.Images++
		}
	}
	rep.Sections = len(res)

	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	rep.Path = filepath.Join(dir, ReportFileName)
	if err := writeFileAtomic(rep.Path, []byte(md)); err != nil {
		return rep, err
	}
	debug.Log("export: wrote %s (%d sections, %d images, %d failures)",
		rep.Path, rep.Sections, rep.Images, len(rep.ImageFailures))
	return rep, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
