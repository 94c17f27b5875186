package prompt

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/widgetgen/widgetgen/internal/widget"
	"go.yaml.in/yaml/v3"
)

// File answers questions from a YAML or TOML file keyed by question key.
// Missing keys take the question's default.
type File struct {
	Path   string
	values map[string]any
	log    zerolog.Logger
}

// LoadFile reads an answers file. The format follows the extension: .yaml or
// .yml for YAML, .toml for TOML.
func LoadFile(fsys afero.Fs, path string, log zerolog.Logger) (*File, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}

	var values map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		values, err = decodeYAML(data)
	case ".toml":
		values = map[string]any{}
		_, err = toml.Decode(string(data), &values)
	default:
		return nil, fmt.Errorf("answers file %s: unsupported format %q (use .yaml, .yml or .toml)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing answers file %s: %w", path, err)
	}

	var unknown []string
	for key := range values {
		if (&widget.Answers{}).Get(key) == nil {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("answers file %s: unknown keys %v", path, unknown)
	}

	return &File{Path: path, values: values, log: log}, nil
}

// decodeYAML keeps scalars as their source text so that a version written as
// 1.10 stays "1.10".
func decodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	values := make(map[string]any, len(doc))
	for key, node := range doc {
		switch node.Kind {
		case yaml.ScalarNode:
			if node.Tag == "!!null" {
				continue
			}
			values[key] = node.Value
		case yaml.SequenceNode:
			items := make([]string, 0, len(node.Content))
			for _, item := range node.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: %s must be a list of strings", item.Line, key)
				}
				items = append(items, item.Value)
			}
			values[key] = items
		default:
			return nil, fmt.Errorf("line %d: %s must be a string or a list", node.Line, key)
		}
	}
	return values, nil
}

// Prompt answers every applicable question from the file.
func (f *File) Prompt(ctx context.Context, questions []widget.Question) (*widget.Answers, error) {
	answers := &widget.Answers{}
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !q.Applies(answers) {
			continue
		}

		value, ok := f.values[q.Key]
		if !ok {
			value = q.Default
		}
		if value == nil {
			if q.Required {
				return nil, fmt.Errorf("answers file %s: %q is required", f.Path, q.Key)
			}
			continue
		}

		if err := answers.Set(q.Key, value); err != nil {
			return nil, fmt.Errorf("answers file %s: %w", f.Path, err)
		}
		// An empty value keeps the default, as an empty line does at a terminal.
		if !answers.IsSet(q.Key) && q.Default != nil {
			if err := answers.Set(q.Key, q.Default); err != nil {
				return nil, fmt.Errorf("answers file %s: %w", f.Path, err)
			}
		}
		if err := q.Check(answers.Get(q.Key)); err != nil {
			return nil, fmt.Errorf("answers file %s: %w", f.Path, err)
		}
		f.log.Debug().Str("key", q.Key).Bool("from_file", ok).Msg("answered")
	}
	return answers, nil
}
