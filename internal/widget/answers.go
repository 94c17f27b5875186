package widget

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Answer keys, shared by question definitions and answer files.
const (
	KeyUpgrade     = "upgrade"
	KeyWidgetName  = "widgetName"
	KeyDescription = "description"
	KeyVersion     = "version"
	KeyAuthor      = "author"
	KeyCopyright   = "copyright"
	KeyLicense     = "license"
	KeyBuilder     = "builder"
	KeyBoilerplate = "boilerplate"
	KeyOptions     = "widgetOptions"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName checks that name can be used as a widget identifier. The name
// ends up in file names, TypeScript identifiers and the module descriptor.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid widget name %q: must match pattern [A-Za-z_][A-Za-z0-9_]*", name)
	}
	return nil
}

// Answers holds what the operator answered. Empty strings mean "not set".
type Answers struct {
	Upgrade     bool     `yaml:"upgrade" toml:"upgrade"`
	WidgetName  string   `yaml:"widgetName" toml:"widgetName"`
	Description string   `yaml:"description" toml:"description"`
	Version     string   `yaml:"version" toml:"version"`
	Author      string   `yaml:"author" toml:"author"`
	Copyright   string   `yaml:"copyright" toml:"copyright"`
	License     string   `yaml:"license" toml:"license"`
	Builder     string   `yaml:"builder" toml:"builder"`
	Boilerplate string   `yaml:"boilerplate" toml:"boilerplate"`
	Options     []string `yaml:"widgetOptions" toml:"widgetOptions"`
}

// Set stores value under key. Confirm answers take a bool (or a parseable
// string), multi-select answers a []string, everything else a string.
func (a *Answers) Set(key string, value any) error {
	switch key {
	case KeyUpgrade:
		b, err := toBool(value)
		if err != nil {
			return fmt.Errorf("answer %q: %w", key, err)
		}
		a.Upgrade = b
		return nil
	case KeyOptions:
		opts, err := toStrings(value)
		if err != nil {
			return fmt.Errorf("answer %q: %w", key, err)
		}
		a.Options = opts
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("answer %q: expected a string, got %T", key, value)
	}
	field := a.stringField(key)
	if field == nil {
		return fmt.Errorf("unknown answer key %q", key)
	}
	*field = s
	return nil
}

// Get returns the value stored under key, or nil for an unknown key.
func (a *Answers) Get(key string) any {
	switch key {
	case KeyUpgrade:
		return a.Upgrade
	case KeyOptions:
		return a.Options
	}
	if field := a.stringField(key); field != nil {
		return *field
	}
	return nil
}

// IsSet reports whether key holds a non-empty answer. Confirm answers are
// always set.
func (a *Answers) IsSet(key string) bool {
	switch v := a.Get(key).(type) {
	case bool:
		return true
	case string:
		return v != ""
	case []string:
		return v != nil
	default:
		return false
	}
}

func (a *Answers) stringField(key string) *string {
	switch key {
	case KeyWidgetName:
		return &a.WidgetName
	case KeyDescription:
		return &a.Description
	case KeyVersion:
		return &a.Version
	case KeyAuthor:
		return &a.Author
	case KeyCopyright:
		return &a.Copyright
	case KeyLicense:
		return &a.License
	case KeyBuilder:
		return &a.Builder
	case KeyBoilerplate:
		return &a.Boilerplate
	default:
		return nil
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("expected yes or no, got %q", v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("expected a bool, got %T", value)
	}
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got element %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}
