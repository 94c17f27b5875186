package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/widgetgen/widgetgen/internal/project"
	"github.com/widgetgen/widgetgen/internal/render"
	"github.com/widgetgen/widgetgen/internal/widget"
)

// The all: prefix keeps _gitignore and __tests__ in the embedded tree.
//
//go:embed all:templates
var embedded embed.FS

// Templates returns the embedded template tree rooted at its top directory.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("scaffold: embedded templates: %v", err))
	}
	return sub
}

// Transform turns template bytes into destination bytes.
type Transform func([]byte) ([]byte, error)

// FileOperation materializes one template file at one destination.
// Destination is slash-separated and relative to the project root, with
// placeholders already resolved. A nil Transform copies verbatim.
type FileOperation struct {
	Source      string
	Destination string
	Transform   Transform
}

// StaleFiles are the generated build-config files that are removed before
// the fresh ones are written.
var StaleFiles = []string{
	"Gruntfile.js",
	"Gulpfile.js",
	"tsconfig.json",
	"tslint.json",
	"karma.conf.js",
	"webpack.config.js",
	"package.json",
}

type transformKind int

const (
	verbatim   transformKind = iota
	identifier               // bare WidgetName
	qualified                // package-qualified names, then bare WidgetName
	descriptor               // WidgetName and {{version}}
	full                     // qualified names and every brace token
	goTemplate               // text/template executed against the widget config
)

// entry is one row of the catalog. Source is relative to the template root,
// or to the selected starter tree when starter is set. Entries with dir set
// copy every file below Source. Entries with perOption set are expanded once
// per selected option, substituting the option name for %s in Source and
// Destination.
type entry struct {
	source    string
	dest      string
	kind      transformKind
	starter   bool
	dir       bool
	perOption bool
	when      func(*project.State, *widget.Config) bool
}

func onlyNew(s *project.State, _ *widget.Config) bool { return s.IsNew }

func emptyStarter(s *project.State, c *widget.Config) bool {
	return s.IsNew && c.Boilerplate == widget.BoilerplateEmpty
}

func builderIs(name string) func(*project.State, *widget.Config) bool {
	return func(_ *project.State, c *widget.Config) bool { return c.Builder == name }
}

var catalog = []entry{
	// Generic files for new projects.
	{source: "icon.png", dest: "icon.png", when: onlyNew},
	{source: "empty/README.md", dest: "README.md", when: onlyNew},
	{source: "MxTestProject/Test.mpr", dest: "dist/MxTestProject/Test.mpr", starter: true, when: onlyNew},
	{source: "empty/tests", dest: "tests", dir: true, when: onlyNew},
	{source: "empty/typings", dest: "typings", dir: true, when: onlyNew},
	{source: "empty/xsd/widget.xsd", dest: "xsd/widget.xsd", when: onlyNew},

	// Widget sources, renamed after the widget.
	{source: "src/WidgetName/widget/components/WidgetName.ts", dest: "src/WidgetName/widget/components/WidgetName.ts", kind: identifier, starter: true, when: onlyNew},
	{source: "src/WidgetName/widget/components/__tests__/WidgetName.spec.ts", dest: "src/WidgetName/widget/components/__tests__/WidgetName.spec.ts", kind: identifier, starter: true, when: onlyNew},
	{source: "src/WidgetName/widget/ui/WidgetName.css", dest: "src/WidgetName/widget/ui/WidgetName.css", starter: true, when: onlyNew},
	{source: "src/WidgetName/widget/WidgetName.ts", dest: "src/WidgetName/widget/WidgetName.ts", kind: full, starter: true, when: onlyNew},
	{source: "src/package.xml", dest: "src/package.xml", kind: descriptor, starter: true, when: onlyNew},
	{source: "src/WidgetName/WidgetName.xml", dest: "src/WidgetName/WidgetName.xml", kind: qualified, starter: true, when: onlyNew},
	{source: "options/%s.ts", dest: "src/WidgetName/widget/actions/%s.ts", kind: identifier, perOption: true, when: emptyStarter},

	// Build, lint and editor configuration, written on every run.
	{source: "_gitignore", dest: ".gitignore"},
	{source: "_jshintrc", dest: ".jshintrc"},
	{source: "tslint.json", dest: "tslint.json"},
	{source: "karma.conf.js", dest: "karma.conf.js"},
	{source: "tsconfig.json", dest: "tsconfig.json"},
	{source: "webpack.config.js", dest: "webpack.config.js", kind: identifier},
	{source: "package.json.tmpl", dest: "package.json", kind: goTemplate},
	{source: "Gruntfile.js.tmpl", dest: "Gruntfile.js", kind: goTemplate, when: builderIs(widget.BuilderGrunt)},
	{source: "Gulpfile.js.tmpl", dest: "Gulpfile.js", kind: goTemplate, when: builderIs(widget.BuilderGulp)},
	{source: "editorconfig", dest: ".editorconfig"},
}

// starterDirs maps a boilerplate choice to its template tree.
var starterDirs = map[string]string{
	widget.BoilerplateEmpty:       "empty",
	widget.BoilerplateProgressBar: "progressbar",
}

// Plan expands the catalog into the FileOperations that apply to this run.
// Selected options without a template are reported as warnings.
func Plan(templates fs.FS, state *project.State, cfg *widget.Config) ([]FileOperation, []string, error) {
	values := renderValues(cfg)
	var ops []FileOperation
	var warnings []string

	for _, e := range catalog {
		if e.when != nil && !e.when(state, cfg) {
			continue
		}

		source := e.source
		if e.starter {
			dir, ok := starterDirs[cfg.Boilerplate]
			if !ok {
				return nil, nil, fmt.Errorf("unknown boilerplate %q", cfg.Boilerplate)
			}
			source = path.Join(dir, source)
		}
		transform := newTransform(e.kind, cfg, values)

		switch {
		case e.perOption:
			for _, opt := range selectedOptions(cfg) {
				src := fmt.Sprintf(source, opt)
				if _, err := fs.Stat(templates, src); err != nil {
					warnings = append(warnings, fmt.Sprintf("no template for widget option %q", opt))
					continue
				}
				ops = append(ops, FileOperation{
					Source:      src,
					Destination: render.RenamePath(fmt.Sprintf(e.dest, opt), render.Identifier(values)),
					Transform:   transform,
				})
			}
		case e.dir:
			err := fs.WalkDir(templates, source, func(p string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				rel := strings.TrimPrefix(p, source+"/")
				ops = append(ops, FileOperation{
					Source:      p,
					Destination: render.RenamePath(path.Join(e.dest, rel), render.Identifier(values)),
					Transform:   transform,
				})
				return nil
			})
			if err != nil {
				return nil, nil, fmt.Errorf("walking template directory %s: %w", source, err)
			}
		default:
			ops = append(ops, FileOperation{
				Source:      source,
				Destination: render.RenamePath(e.dest, render.Identifier(values)),
				Transform:   transform,
			})
		}
	}

	return ops, warnings, nil
}

func selectedOptions(cfg *widget.Config) []string {
	var opts []string
	for name := range cfg.Options {
		if cfg.HasOption(name) {
			opts = append(opts, name)
		}
	}
	sort.Strings(opts)
	return opts
}

func renderValues(cfg *widget.Config) render.Values {
	return render.Values{
		WidgetName:  cfg.WidgetName,
		PackageName: cfg.PackageName,
		Version:     cfg.Version,
		Date:        cfg.Date,
		Copyright:   cfg.Copyright,
		License:     cfg.License,
		Author:      cfg.Author,
	}
}

func newTransform(kind transformKind, cfg *widget.Config, values render.Values) Transform {
	var rules render.Rules
	switch kind {
	case verbatim:
		return nil
	case identifier:
		rules = render.Identifier(values)
	case qualified:
		rules = render.Qualified(values)
	case descriptor:
		rules = render.Descriptor(values)
	case full:
		rules = render.Full(values)
	case goTemplate:
		return func(data []byte) ([]byte, error) {
			return executeTemplate(data, cfg)
		}
	}
	return func(data []byte) ([]byte, error) {
		return []byte(render.Render(string(data), rules)), nil
	}
}

var funcs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// executeTemplate renders a Go text/template with the widget config as data.
func executeTemplate(data []byte, cfg *widget.Config) ([]byte, error) {
	tmpl, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}
