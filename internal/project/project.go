package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/widgetgen/widgetgen/internal/manifest"
)

// MarkerDir is the directory whose presence marks an existing project.
const MarkerDir = "src"

// Defaults for a destination without prior metadata.
const (
	DefaultName    = "CurrentWidget"
	DefaultVersion = "1.0.0"
)

// ErrOccupiedDestination is returned when the destination holds files but
// no src/ directory, so it cannot be treated as a widget project.
var ErrOccupiedDestination = errors.New("destination directory is not empty and does not contain a widget project; run the generator in an empty directory")

// Current is the configuration recovered from an existing project.
type Current struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	License     string `json:"license,omitempty"`
	Builder     string `json:"builder,omitempty"`
}

// State is the classification of a destination directory. It is computed
// once per run and not modified afterwards.
type State struct {
	Root    string  `json:"root"`
	IsNew   bool    `json:"isNew"`
	Current Current `json:"current"`
}

// Detect inspects root and returns its State. An unparsable descriptor
// yields a *manifest.ParseError and a non-empty root without src/ yields
// ErrOccupiedDestination; in both cases the returned State is nil.
func Detect(fsys afero.Fs, root string) (*State, error) {
	state := &State{
		Root:  root,
		IsNew: true,
		Current: Current{
			Name:    DefaultName,
			Version: DefaultVersion,
		},
	}

	entries, err := afero.ReadDir(fsys, root)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	if !hasDir(entries, MarkerDir) {
		if len(entries) > 0 {
			return nil, ErrOccupiedDestination
		}
		return state, nil
	}

	state.IsNew = false

	srcEntries, err := afero.ReadDir(fsys, filepath.Join(root, MarkerDir))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", filepath.Join(root, MarkerDir), err)
	}
	if dirs := dirNames(srcEntries); len(dirs) == 1 {
		state.Current.Name = dirs[0]
	}

	pkg, err := manifest.ReadPackageJSON(fsys, root)
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		state.Current.Description = pkg.Description
		state.Current.Author = string(pkg.Author)
		state.Current.Copyright = pkg.Copyright
		state.Current.License = pkg.License
		state.Current.Builder = pkg.Builder()
	}

	xmlPkg, err := manifest.ReadPackageXML(fsys, root)
	if err != nil {
		return nil, err
	}
	if xmlPkg != nil {
		if v := xmlPkg.Version(); v != "" {
			state.Current.Version = manifest.NormalizeVersion(v)
		}
	}

	return state, nil
}

func hasDir(entries []os.FileInfo, name string) bool {
	for _, e := range entries {
		if e.IsDir() && e.Name() == name {
			return true
		}
	}
	return false
}

func dirNames(entries []os.FileInfo) []string {
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
