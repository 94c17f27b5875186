package widget

import (
	"fmt"
	"slices"

	"github.com/widgetgen/widgetgen/internal/manifest"
	"github.com/widgetgen/widgetgen/internal/project"
)

// Builders supported by the generated project.
const (
	BuilderGrunt = manifest.BuilderGrunt
	BuilderGulp  = manifest.BuilderGulp
)

// Starter templates for new projects.
const (
	BoilerplateEmpty       = "empty"
	BoilerplateProgressBar = "progressbar"
)

// Kind selects how a question is presented and what type its answer has.
type Kind int

const (
	KindInput       Kind = iota // free text, string answer
	KindConfirm                 // yes/no, bool answer
	KindSelect                  // one of Choices, string answer
	KindMultiSelect             // any subset of Choices, []string answer
)

// Choice is one selectable value of a select or multi-select question.
type Choice struct {
	Value string
	Label string
}

// Question describes one value the operator is asked for. The transport that
// asks it lives outside this package.
type Question struct {
	Key      string
	Kind     Kind
	Message  string
	Default  any // string, bool or []string depending on Kind; nil for none
	Choices  []Choice
	Required bool

	// Validate checks a text answer. Nil accepts anything.
	Validate func(string) error
	// When reports whether the question applies given the answers so far.
	// Nil means always.
	When func(*Answers) bool
}

// Applies reports whether q should be asked given the answers so far.
func (q Question) Applies(a *Answers) bool {
	return q.When == nil || q.When(a)
}

// Check validates a candidate answer for q.
func (q Question) Check(value any) error {
	switch q.Kind {
	case KindSelect:
		s, _ := value.(string)
		if s == "" && !q.Required {
			return nil
		}
		if !hasChoice(q.Choices, s) {
			return fmt.Errorf("%s: %q is not one of %v", q.Key, s, choiceValues(q.Choices))
		}
	case KindMultiSelect:
		vals, err := toStrings(value)
		if err != nil {
			return fmt.Errorf("%s: %w", q.Key, err)
		}
		for _, v := range vals {
			if !hasChoice(q.Choices, v) {
				return fmt.Errorf("%s: %q is not one of %v", q.Key, v, choiceValues(q.Choices))
			}
		}
	case KindInput:
		s, _ := value.(string)
		if s == "" {
			if q.Required {
				return fmt.Errorf("%s is required", q.Key)
			}
			return nil
		}
		if q.Validate != nil {
			return q.Validate(s)
		}
	}
	return nil
}

// BuilderChoices lists the supported build tools.
var BuilderChoices = []Choice{
	{Value: BuilderGrunt, Label: "Grunt"},
	{Value: BuilderGulp, Label: "Gulp"},
}

// BoilerplateChoices lists the starter templates for new projects.
var BoilerplateChoices = []Choice{
	{Value: BoilerplateEmpty, Label: "Empty widget (recommended for experienced developers)"},
	{Value: BoilerplateProgressBar, Label: "Progress bar widget (a fully working example)"},
}

// OptionChoices lists the optional features of the empty starter.
var OptionChoices = []Choice{
	{Value: "executeMicroflow", Label: "Execute a microflow on click"},
	{Value: "openPage", Label: "Open a page on click"},
	{Value: "xpathSource", Label: "Retrieve data with an XPath source"},
}

// Defaults seeds the new-project questions, usually from user config.
type Defaults struct {
	Author    string
	Copyright string
	License   string
	Builder   string
}

// NewProjectQuestions returns the question set for an empty destination.
func NewProjectQuestions(d Defaults) []Question {
	license := d.License
	if license == "" {
		license = "Apache-2.0"
	}
	builder := d.Builder
	if !hasChoice(BuilderChoices, builder) {
		builder = BuilderGrunt
	}

	return []Question{
		{Key: KeyWidgetName, Kind: KindInput, Message: "What is the name of your widget?", Required: true, Validate: ValidateName},
		{Key: KeyDescription, Kind: KindInput, Message: "Enter a description for your widget"},
		{Key: KeyVersion, Kind: KindInput, Message: "Initial version", Default: project.DefaultVersion, Required: true, Validate: ValidateVersion},
		{Key: KeyAuthor, Kind: KindInput, Message: "Author", Default: optional(d.Author)},
		{Key: KeyCopyright, Kind: KindInput, Message: "Copyright", Default: optional(d.Copyright)},
		{Key: KeyLicense, Kind: KindInput, Message: "License", Default: license},
		{Key: KeyBuilder, Kind: KindSelect, Message: "Which task runner do you want to use for development?", Default: builder, Choices: BuilderChoices, Required: true},
		{Key: KeyBoilerplate, Kind: KindSelect, Message: "Which template do you want to use for the widget?", Default: BoilerplateEmpty, Choices: BoilerplateChoices, Required: true},
		{
			Key:     KeyOptions,
			Kind:    KindMultiSelect,
			Message: "Which features do you want to add to the widget?",
			Choices: OptionChoices,
			When:    func(a *Answers) bool { return a.Boilerplate == BoilerplateEmpty },
		},
	}
}

// UpgradeQuestions returns the question set for an existing project. Every
// question after the confirmation is skipped when the operator declines.
func UpgradeQuestions(cur project.Current) []Question {
	confirmed := func(a *Answers) bool { return a.Upgrade }

	return []Question{
		{
			Key:     KeyUpgrade,
			Kind:    KindConfirm,
			Message: fmt.Sprintf("Existing widget %q (version %s) found. Upgrade the build configuration?", cur.Name, cur.Version),
			Default: false,
		},
		{Key: KeyWidgetName, Kind: KindInput, Message: "Widget name", Default: cur.Name, Required: true, Validate: keepOrValidateName(cur.Name), When: confirmed},
		{Key: KeyDescription, Kind: KindInput, Message: "Description", Default: optional(cur.Description), When: confirmed},
		{Key: KeyVersion, Kind: KindInput, Message: "Version", Default: cur.Version, Required: true, Validate: ValidateVersion, When: confirmed},
		{Key: KeyAuthor, Kind: KindInput, Message: "Author", Default: optional(cur.Author), When: confirmed},
		{Key: KeyCopyright, Kind: KindInput, Message: "Copyright", Default: optional(cur.Copyright), When: confirmed},
		{Key: KeyLicense, Kind: KindInput, Message: "License", Default: optional(cur.License), When: confirmed},
		{
			Key:      KeyBuilder,
			Kind:     KindSelect,
			Message:  "Which task runner do you want to use for development?",
			Default:  optional(cur.Builder),
			Choices:  BuilderChoices,
			Required: true,
			When:     confirmed,
		},
	}
}

// keepOrValidateName accepts the name recovered from an existing project as
// is. Projects laid out by hand may use directory names that a new widget
// could not.
func keepOrValidateName(current string) func(string) error {
	return func(name string) error {
		if name == current {
			return nil
		}
		return ValidateName(name)
	}
}

// optional turns an empty default into "no default".
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func hasChoice(choices []Choice, value string) bool {
	return slices.ContainsFunc(choices, func(c Choice) bool { return c.Value == value })
}

func choiceValues(choices []Choice) []string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return vals
}
