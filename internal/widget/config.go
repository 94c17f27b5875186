package widget

import (
	"errors"
	"fmt"
	"time"

	"github.com/widgetgen/widgetgen/internal/project"
)

// DateLayout is the format of Config.Date.
const DateLayout = "1/2/2006"

// Config is the resolved configuration that drives file generation.
type Config struct {
	WidgetName       string          `json:"widgetName"`
	PackageName      string          `json:"packageName"`
	Description      string          `json:"description"`
	Version          string          `json:"version"`
	Author           string          `json:"author"`
	Copyright        string          `json:"copyright"`
	License          string          `json:"license"`
	Builder          string          `json:"builder"`
	Boilerplate      string          `json:"boilerplate,omitempty"`
	Options          map[string]bool `json:"widgetOptions,omitempty"`
	Date             string          `json:"date"`
	GeneratorVersion string          `json:"generatorVersion"`
}

// HasOption reports whether the optional feature name was selected.
func (c *Config) HasOption(name string) bool {
	return c.Options[name]
}

// Resolve merges answers with the detected state. Description, author,
// copyright and license fall back to the values recovered from the existing
// project when the operator left them empty.
func Resolve(state *project.State, a *Answers, generatorVersion string, now time.Time) (*Config, error) {
	if state == nil || a == nil {
		return nil, errors.New("resolving widget config: state and answers are required")
	}

	cfg := &Config{
		WidgetName:       a.WidgetName,
		PackageName:      a.WidgetName,
		Description:      fallback(a.Description, state.Current.Description),
		Version:          a.Version,
		Author:           fallback(a.Author, state.Current.Author),
		Copyright:        fallback(a.Copyright, state.Current.Copyright),
		License:          fallback(a.License, state.Current.License),
		Builder:          a.Builder,
		Date:             now.Format(DateLayout),
		GeneratorVersion: generatorVersion,
	}

	if state.IsNew || cfg.WidgetName != state.Current.Name {
		if err := ValidateName(cfg.WidgetName); err != nil {
			return nil, err
		}
	}
	if err := ValidateVersion(cfg.Version); err != nil {
		return nil, err
	}
	if !hasChoice(BuilderChoices, cfg.Builder) {
		return nil, fmt.Errorf("builder %q is not one of %v", cfg.Builder, choiceValues(BuilderChoices))
	}

	if state.IsNew {
		if !hasChoice(BoilerplateChoices, a.Boilerplate) {
			return nil, fmt.Errorf("boilerplate %q is not one of %v", a.Boilerplate, choiceValues(BoilerplateChoices))
		}
		cfg.Boilerplate = a.Boilerplate
		cfg.Options = map[string]bool{}
		if cfg.Boilerplate == BoilerplateEmpty {
			for _, opt := range a.Options {
				cfg.Options[opt] = true
			}
		}
	}

	return cfg, nil
}

func fallback(value, current string) string {
	if value != "" {
		return value
	}
	return current
}
