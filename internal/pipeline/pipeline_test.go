package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/widgetgen/widgetgen/internal/manifest"
	"github.com/widgetgen/widgetgen/internal/project"
	"github.com/widgetgen/widgetgen/internal/scaffold"
	"github.com/widgetgen/widgetgen/internal/widget"
)

const root = "/work"

type fakePrompter struct {
	answers   *widget.Answers
	err       error
	calls     int
	questions []widget.Question
}

func (f *fakePrompter) Prompt(_ context.Context, qs []widget.Question) (*widget.Answers, error) {
	f.calls++
	f.questions = qs
	return f.answers, f.err
}

// fakeInstaller populates node_modules the way npm would.
type fakeInstaller struct {
	fs    afero.Fs
	calls int
	err   error
}

func (f *fakeInstaller) Install(_ context.Context, dir string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return afero.WriteFile(f.fs, filepath.Join(dir, "node_modules", "grunt", "package.json"), []byte("{}"), 0644)
}

type fakeBuilder struct {
	calls   int
	builder string
}

func (f *fakeBuilder) Build(_ context.Context, _ string, builder string) error {
	f.calls++
	f.builder = builder
	return nil
}

type harness struct {
	fs        afero.Fs
	prompter  *fakePrompter
	installer *fakeInstaller
	builder   *fakeBuilder
	out       *bytes.Buffer
	pipeline  *Pipeline
}

func newHarness(answers *widget.Answers) *harness {
	fsys := afero.NewMemMapFs()
	h := &harness{
		fs:        fsys,
		prompter:  &fakePrompter{answers: answers},
		installer: &fakeInstaller{fs: fsys},
		builder:   &fakeBuilder{},
		out:       &bytes.Buffer{},
	}
	h.pipeline = &Pipeline{
		Fs:        fsys,
		Prompter:  h.prompter,
		Scaffold:  scaffold.New(fsys, zerolog.Nop()),
		Installer: h.installer,
		Builder:   h.builder,
		Version:   "1.2.3",
		Now:       func() time.Time { return time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC) },
		Out:       h.out,
		Log:       zerolog.Nop(),
	}
	return h
}

func (h *harness) write(t *testing.T, rel, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(h.fs, filepath.Join(root, rel), []byte(content), 0644))
}

func (h *harness) exists(rel string) bool {
	ok, _ := afero.Exists(h.fs, filepath.Join(root, rel))
	return ok
}

// snapshot maps every path under root to its content, or "/" for a directory.
func (h *harness) snapshot(t *testing.T) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := afero.Walk(h.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			tree[p] = "/"
			return nil
		}
		data, err := afero.ReadFile(h.fs, p)
		tree[p] = string(data)
		return err
	})
	require.NoError(t, err)
	return tree
}

func newAnswers() *widget.Answers {
	return &widget.Answers{
		WidgetName:  "Foo",
		Version:     "1.0.0",
		Builder:     widget.BuilderGrunt,
		Boilerplate: widget.BoilerplateEmpty,
	}
}

func seedProject(t *testing.T, h *harness) {
	t.Helper()
	h.write(t, "package.json", `{"name":"Foo","version":"2.1.0","author":"Jane Roe","devDependencies":{"gulp":"^3.9.1"}}`)
	h.write(t, "src/package.xml", `<package><clientModule name="Foo" version="2.1"/></package>`)
	h.write(t, "src/Foo/widget/Foo.ts", "// hand written")
	h.write(t, "Gulpfile.js", "old gulp")
}

func TestRun_NewProject(t *testing.T) {
	h := newHarness(newAnswers())

	c, err := h.pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, c.Outcome)
	assert.True(t, c.State.IsNew)
	assert.Equal(t, "1.2.3", c.Config.GeneratorVersion)
	assert.Equal(t, "3/7/2024", c.Config.Date)
	assert.True(t, h.exists("src/Foo/widget/Foo.ts"))
	assert.True(t, h.exists("Gruntfile.js"))

	assert.Equal(t, widget.KeyWidgetName, h.prompter.questions[0].Key)
	assert.Equal(t, 1, h.installer.calls)
	assert.Equal(t, 1, h.builder.calls)
	assert.Equal(t, widget.BuilderGrunt, h.builder.builder)
	assert.True(t, c.Installed)
	assert.True(t, c.Built)
	assert.Contains(t, h.out.String(), "Installing dependencies")
}

func TestRun_MalformedPackageJSON(t *testing.T) {
	h := newHarness(newAnswers())
	h.write(t, "package.json", `{"name": `)
	h.write(t, "src/Foo/Foo.xml", "<widget/>")
	before := h.snapshot(t)

	c, err := h.pipeline.Run(context.Background(), root)
	require.Error(t, err)
	assert.Equal(t, before, h.snapshot(t), "no file may be written, removed or created")

	var perr *manifest.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, OutcomeFailed, c.Outcome)
	assert.Zero(t, h.prompter.calls, "no questions before a fatal detection error")
	assert.Zero(t, h.installer.calls)
	assert.False(t, h.exists("tsconfig.json"))
}

func TestRun_OccupiedDestination(t *testing.T) {
	h := newHarness(newAnswers())
	h.write(t, "notes.txt", "hello")
	before := h.snapshot(t)

	c, err := h.pipeline.Run(context.Background(), root)
	assert.ErrorIs(t, err, project.ErrOccupiedDestination)
	assert.Equal(t, before, h.snapshot(t))
	assert.Equal(t, OutcomeFailed, c.Outcome)
	assert.Zero(t, h.prompter.calls)
	assert.False(t, h.exists("package.json"))
}

func TestRun_DeclinedUpgrade(t *testing.T) {
	h := newHarness(&widget.Answers{Upgrade: false})
	seedProject(t, h)

	c, err := h.pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDeclined, c.Outcome)
	assert.Equal(t, widget.KeyUpgrade, h.prompter.questions[0].Key)
	assert.Nil(t, c.Config)
	assert.Zero(t, h.installer.calls)
	assert.Zero(t, h.builder.calls)
	assert.True(t, h.exists("Gulpfile.js"), "nothing is touched when declined")
	assert.False(t, h.exists("tsconfig.json"))
}

func TestRun_Upgrade(t *testing.T) {
	answers := &widget.Answers{Upgrade: true, WidgetName: "Foo", Version: "2.0.0", Builder: widget.BuilderGrunt}
	h := newHarness(answers)
	seedProject(t, h)

	c, err := h.pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, c.Outcome)
	assert.Equal(t, "2.1.0", c.State.Current.Version)
	assert.Equal(t, "Jane Roe", c.Config.Author, "author carried over from package.json")
	assert.False(t, h.exists("Gulpfile.js"))
	assert.True(t, h.exists("Gruntfile.js"))
	assert.True(t, h.exists("src/Foo/widget/Foo.ts"))
	require.NotEmpty(t, c.Warnings)
	assert.Contains(t, c.Warnings[0], "lower than the current version")
}

func TestRun_NoModulesPrintsHint(t *testing.T) {
	h := newHarness(newAnswers())
	h.pipeline.Installer = nil

	c, err := h.pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Zero(t, h.builder.calls)
	assert.False(t, c.Built)
	assert.Contains(t, h.out.String(), `Run "npm install"`)
}

func TestRun_InstallFailureIsWarning(t *testing.T) {
	h := newHarness(newAnswers())
	h.installer.err = errors.New("npm exploded")

	c, err := h.pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, c.Outcome)
	assert.Contains(t, c.Warnings, "npm exploded")
	assert.Zero(t, h.builder.calls)
}

func TestRun_DryRun(t *testing.T) {
	h := newHarness(newAnswers())
	h.pipeline.DryRun = true
	h.pipeline.Scaffold.DryRun = true

	c, err := h.pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, c.Outcome)
	assert.NotEmpty(t, c.Result.Files)
	assert.False(t, h.exists("package.json"))
	assert.Zero(t, h.installer.calls)
	assert.Zero(t, h.builder.calls)
}

func TestRun_WriteFailure(t *testing.T) {
	h := newHarness(newAnswers())
	h.pipeline.Scaffold.Fs = afero.NewReadOnlyFs(h.fs)

	c, err := h.pipeline.Run(context.Background(), root)
	var we *scaffold.WriteError
	require.True(t, errors.As(err, &we), "got %v", err)
	assert.Equal(t, OutcomeFailed, c.Outcome)
	assert.Zero(t, h.installer.calls)
}

func TestRun_PromptError(t *testing.T) {
	h := newHarness(nil)
	h.prompter.err = errors.New("stdin closed")

	c, err := h.pipeline.Run(context.Background(), root)
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, c.Outcome)
	assert.False(t, h.exists("package.json"))
}

func TestRun_Cancelled(t *testing.T) {
	h := newHarness(newAnswers())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := h.pipeline.Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeFailed, c.Outcome)
	assert.Zero(t, h.prompter.calls)
}

func TestStagesSkipOnceDone(t *testing.T) {
	h := newHarness(newAnswers())
	declined := Context{Root: root, Outcome: OutcomeDeclined}

	for _, stage := range h.pipeline.Stages() {
		assert.Equal(t, declined, stage(context.Background(), declined))
	}
	assert.Zero(t, h.prompter.calls)
}

func TestContextIsNotMutated(t *testing.T) {
	h := newHarness(newAnswers())
	before := Context{Root: root}

	after := h.pipeline.detect(context.Background(), before)
	assert.Nil(t, before.State)
	assert.NotNil(t, after.State)

	warned := after.warn("one")
	_ = warned.warn("two")
	assert.Equal(t, []string{"one"}, warned.Warnings)
	assert.Empty(t, after.Warnings)
}
