package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/widgetgen/widgetgen/internal/project"
	"github.com/widgetgen/widgetgen/internal/scaffold"
	"github.com/widgetgen/widgetgen/internal/widget"
)

// Outcome is the terminal state of a run.
type Outcome int

const (
	OutcomePending   Outcome = iota // still running
	OutcomeCompleted                // files written, follow-up steps attempted
	OutcomeDeclined                 // operator declined the upgrade; nothing written
	OutcomeFailed                   // Err holds the cause
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCompleted:
		return "completed"
	case OutcomeDeclined:
		return "declined"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Prompter asks the applicable questions, in order, and returns the answers.
type Prompter interface {
	Prompt(ctx context.Context, questions []widget.Question) (*widget.Answers, error)
}

// Installer installs the generated project's dependencies.
type Installer interface {
	Install(ctx context.Context, dir string) error
}

// BuildRunner runs the project's build tool.
type BuildRunner interface {
	Build(ctx context.Context, dir, builder string) error
}

// Context is the state of one run. Stages never mutate a Context they
// receive; they return a modified copy.
type Context struct {
	Root      string
	State     *project.State
	Answers   *widget.Answers
	Config    *widget.Config
	Result    *scaffold.Result
	Warnings  []string
	Installed bool
	Built     bool
	Outcome   Outcome
	Err       error
}

// Done reports whether an outcome has been recorded.
func (c Context) Done() bool { return c.Outcome != OutcomePending }

func (c Context) fail(err error) Context {
	c.Outcome = OutcomeFailed
	c.Err = err
	return c
}

func (c Context) warn(msg string) Context {
	c.Warnings = append(slices.Clip(c.Warnings), msg)
	return c
}

// Stage is one step of a run.
type Stage func(context.Context, Context) Context

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Fs       afero.Fs
	Prompter Prompter
	Scaffold *scaffold.Orchestrator
	// Installer and Builder may be nil, which skips the step.
	Installer Installer
	Builder   BuildRunner
	// DryRun stops after planning the writes.
	DryRun bool

	Defaults widget.Defaults
	Version  string
	Now      func() time.Time
	// Out receives the progress messages meant for the operator.
	Out io.Writer
	Log zerolog.Logger
}

// Stages returns the stages of a run, in order.
func (p *Pipeline) Stages() []Stage {
	return []Stage{p.detect, p.collect, p.resolve, p.write, p.install, p.finish}
}

// Run executes every stage against root and returns the final Context. The
// returned error is the Context's Err.
func (p *Pipeline) Run(ctx context.Context, root string) (Context, error) {
	c := Context{Root: root}
	for _, stage := range p.Stages() {
		if c.Done() {
			break
		}
		if err := ctx.Err(); err != nil {
			c = c.fail(err)
			break
		}
		c = stage(ctx, c)
	}
	if !c.Done() {
		c.Outcome = OutcomeCompleted
	}
	p.Log.Debug().Str("root", root).Stringer("outcome", c.Outcome).Msg("run finished")
	return c, c.Err
}

func (p *Pipeline) detect(_ context.Context, c Context) Context {
	if c.Done() {
		return c
	}
	state, err := project.Detect(p.Fs, c.Root)
	if err != nil {
		return c.fail(err)
	}
	p.Log.Debug().
		Bool("new", state.IsNew).
		Str("name", state.Current.Name).
		Str("version", state.Current.Version).
		Str("builder", state.Current.Builder).
		Msg("detected project state")
	c.State = state
	return c
}

func (p *Pipeline) collect(ctx context.Context, c Context) Context {
	if c.Done() {
		return c
	}

	var questions []widget.Question
	if c.State.IsNew {
		questions = widget.NewProjectQuestions(p.Defaults)
	} else {
		questions = widget.UpgradeQuestions(c.State.Current)
	}

	answers, err := p.Prompter.Prompt(ctx, questions)
	if err != nil {
		return c.fail(fmt.Errorf("collecting answers: %w", err))
	}
	c.Answers = answers

	if !c.State.IsNew && !answers.Upgrade {
		p.Log.Debug().Msg("upgrade declined")
		c.Outcome = OutcomeDeclined
	}
	return c
}

func (p *Pipeline) resolve(_ context.Context, c Context) Context {
	if c.Done() {
		return c
	}

	cfg, err := widget.Resolve(c.State, c.Answers, p.Version, p.now())
	if err != nil {
		return c.fail(err)
	}
	c.Config = cfg

	if !c.State.IsNew {
		down, err := widget.IsDowngrade(c.State.Current.Version, cfg.Version)
		switch {
		case err != nil:
			p.Log.Debug().Err(err).Msg("skipping version comparison")
		case down:
			msg := fmt.Sprintf("version %s is lower than the current version %s", cfg.Version, c.State.Current.Version)
			p.Log.Warn().Str("current", c.State.Current.Version).Str("requested", cfg.Version).Msg("version downgrade")
			c = c.warn(msg)
		}
	}
	return c
}

func (p *Pipeline) write(ctx context.Context, c Context) Context {
	if c.Done() {
		return c
	}

	result, err := p.Scaffold.Apply(ctx, c.State, c.Config)
	if err != nil {
		return c.fail(err)
	}
	c.Result = result
	for _, w := range result.Warnings {
		c = c.warn(w)
	}
	return c
}

func (p *Pipeline) install(ctx context.Context, c Context) Context {
	if c.Done() || p.DryRun || p.Installer == nil {
		return c
	}

	p.say("Installing dependencies with npm. This may take a while.")
	if err := p.Installer.Install(ctx, c.Root); err != nil {
		p.Log.Warn().Err(err).Msg("dependency installation failed")
		return c.warn(err.Error())
	}
	c.Installed = true
	return c
}

func (p *Pipeline) finish(ctx context.Context, c Context) Context {
	if c.Done() || p.DryRun {
		return c
	}

	populated, err := p.hasModules(c.Root)
	if err != nil {
		p.Log.Debug().Err(err).Msg("checking node_modules")
	}
	if !populated {
		p.say("Dependencies are not installed. Run \"npm install\" in %s, then %q to build the widget.", c.Root, c.Config.Builder)
		return c
	}
	if p.Builder == nil {
		return c
	}

	p.say("Building the widget with %s.", c.Config.Builder)
	if err := p.Builder.Build(ctx, c.Root, c.Config.Builder); err != nil {
		p.Log.Warn().Err(err).Msg("build failed")
		return c.warn(err.Error())
	}
	c.Built = true
	return c
}

func (p *Pipeline) hasModules(root string) (bool, error) {
	dir := filepath.Join(root, "node_modules")
	exists, err := afero.DirExists(p.Fs, dir)
	if err != nil || !exists {
		return false, err
	}
	empty, err := afero.IsEmpty(p.Fs, dir)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (p *Pipeline) say(format string, args ...any) {
	if p.Out == nil {
		return
	}
	fmt.Fprintf(p.Out, format+"\n", args...)
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
