package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/widgetgen/widgetgen/internal/manifest"
	"github.com/widgetgen/widgetgen/internal/project"
	"github.com/widgetgen/widgetgen/internal/widget"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// WriteError reports an I/O failure while removing or writing a file. Files
// written before the failure stay on disk.
type WriteError struct {
	Op   string // "remove" or "write"
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileDiff is the unified diff between an existing file and the content that
// would replace it.
type FileDiff struct {
	Path string
	Diff string
}

// Result holds the outcome of an Apply.
type Result struct {
	Root     string
	Files    []string // destinations written (or planned, in a dry run), in catalog order
	Removed  []string // stale files that existed and were removed
	Diffs    []FileDiff
	Warnings []string
}

// Orchestrator materializes the template catalog into a project root.
type Orchestrator struct {
	Fs        afero.Fs
	Templates fs.FS
	// DryRun computes the result and diffs without touching Fs.
	DryRun bool
	Log    zerolog.Logger
}

// New returns an Orchestrator over fsys using the embedded templates.
func New(fsys afero.Fs, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Fs:        fsys,
		Templates: Templates(),
		Log:       log,
	}
}

type rendered struct {
	dest string
	data []byte
}

// Apply writes the files for state and cfg under state.Root. Everything is
// rendered in memory first, then the stale build-config files are removed,
// then the new files are written. Any I/O failure aborts with a *WriteError.
func (o *Orchestrator) Apply(ctx context.Context, state *project.State, cfg *widget.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ops, warnings, err := Plan(o.Templates, state, cfg)
	if err != nil {
		return nil, err
	}

	files := make([]rendered, 0, len(ops))
	for _, op := range ops {
		data, err := fs.ReadFile(o.Templates, op.Source)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", op.Source, err)
		}
		if op.Transform != nil {
			if data, err = op.Transform(data); err != nil {
				return nil, fmt.Errorf("rendering %s: %w", op.Source, err)
			}
		}
		files = append(files, rendered{dest: op.Destination, data: data})
	}

	result := &Result{Root: state.Root, Warnings: warnings}

	if o.DryRun {
		if err := o.diff(state.Root, files, result); err != nil {
			return nil, err
		}
	} else {
		if err := o.removeStale(state.Root, result); err != nil {
			return nil, err
		}
		for _, f := range files {
			if err := o.write(state.Root, f); err != nil {
				return nil, err
			}
			result.Files = append(result.Files, f.dest)
		}
	}

	for _, f := range files {
		if f.dest == manifest.PackageJSONFile {
			result.Warnings = append(result.Warnings, validatePackage(f.data)...)
		}
	}

	o.Log.Debug().
		Str("root", state.Root).
		Int("files", len(result.Files)).
		Int("removed", len(result.Removed)).
		Bool("dry_run", o.DryRun).
		Msg("scaffold applied")

	return result, nil
}

// removeStale deletes every stale build-config file, ignoring the ones that
// do not exist.
func (o *Orchestrator) removeStale(root string, result *Result) error {
	for _, name := range StaleFiles {
		p := filepath.Join(root, name)
		err := o.Fs.Remove(p)
		switch {
		case err == nil:
			result.Removed = append(result.Removed, name)
			o.Log.Debug().Str("path", name).Msg("removed stale file")
		case errors.Is(err, fs.ErrNotExist):
		default:
			return &WriteError{Op: "remove", Path: p, Err: err}
		}
	}
	return nil
}

func (o *Orchestrator) write(root string, f rendered) error {
	p := filepath.Join(root, filepath.FromSlash(f.dest))
	if err := o.Fs.MkdirAll(filepath.Dir(p), dirPerm); err != nil {
		return &WriteError{Op: "write", Path: p, Err: err}
	}
	if err := afero.WriteFile(o.Fs, p, f.data, filePerm); err != nil {
		return &WriteError{Op: "write", Path: p, Err: err}
	}
	o.Log.Debug().Str("path", f.dest).Int("bytes", len(f.data)).Msg("wrote file")
	return nil
}

// diff fills result as Apply would, recording a unified diff for every file
// whose content would change.
func (o *Orchestrator) diff(root string, files []rendered, result *Result) error {
	for _, name := range StaleFiles {
		exists, err := afero.Exists(o.Fs, filepath.Join(root, name))
		if err != nil {
			return fmt.Errorf("checking %s: %w", name, err)
		}
		if exists {
			result.Removed = append(result.Removed, name)
		}
	}

	for _, f := range files {
		result.Files = append(result.Files, f.dest)

		old, err := afero.ReadFile(o.Fs, filepath.Join(root, filepath.FromSlash(f.dest)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.dest, err)
		}
		if bytes.Equal(old, f.data) {
			continue
		}
		result.Diffs = append(result.Diffs, FileDiff{
			Path: f.dest,
			Diff: udiff.Unified("a/"+f.dest, "b/"+f.dest, string(old), string(f.data)),
		})
	}
	return nil
}

func validatePackage(data []byte) []string {
	vr, err := manifest.Validate(data)
	if err != nil {
		return []string{fmt.Sprintf("could not validate package.json: %v", err)}
	}
	var warnings []string
	for _, issue := range vr.Issues {
		warnings = append(warnings, "package.json "+issue.String())
	}
	return warnings
}
