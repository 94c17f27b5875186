//go:build integration

package integration_test

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/widgetgen/widgetgen/internal/pipeline"
	"github.com/widgetgen/widgetgen/internal/prompt"
	"github.com/widgetgen/widgetgen/internal/runtime"
	"github.com/widgetgen/widgetgen/internal/scaffold"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	ProjectDir string // destination of the generator
	BinDir     string // fake npm on PATH
	AnswersDir string // answers files
}

// setupTestEnv creates isolated temp directories and puts a fake npm on PATH.
// The fake npm "installs" by creating node_modules/.bin/grunt and gulp
// scripts that record their invocation in build.log.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}

	env := &testEnv{
		ProjectDir: filepath.Join(t.TempDir(), "widget"),
		BinDir:     t.TempDir(),
		AnswersDir: t.TempDir(),
	}

	writeScript(t, filepath.Join(env.BinDir, "npm"), `
echo "$@" >> npm.log
mkdir -p node_modules/.bin
for tool in grunt gulp; do
	printf '#!/bin/sh\necho %s >> build.log\n' "$tool" > node_modules/.bin/$tool
	chmod +x node_modules/.bin/$tool
done
`)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	return env
}

// runGenerator runs the full pipeline on the real filesystem with answers
// read from an answers file.
func runGenerator(t *testing.T, env *testEnv, answers string, install bool) pipeline.Context {
	t.Helper()

	answersPath := filepath.Join(env.AnswersDir, "answers.yaml")
	writeFile(t, answersPath, answers)

	fsys := afero.NewOsFs()
	log := zerolog.Nop()
	prompter, err := prompt.LoadFile(fsys, answersPath, log)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	runner := &runtime.Runner{Stdout: io.Discard, Stderr: io.Discard, Log: log}
	p := &pipeline.Pipeline{
		Fs:       fsys,
		Prompter: prompter,
		Scaffold: scaffold.New(fsys, log),
		Builder:  &runtime.TaskRunner{Runner: runner},
		Version:  "0.0.0-test",
		Now:      func() time.Time { return time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC) },
		Out:      io.Discard,
		Log:      log,
	}
	if install {
		p.Installer = &runtime.NpmInstaller{Runner: runner}
	}

	c, err := p.Run(context.Background(), env.ProjectDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return c
}

func newAnswers(name, builder, boilerplate string, options ...string) string {
	var b strings.Builder
	b.WriteString("widgetName: " + name + "\n")
	b.WriteString("author: Jane Roe\n")
	b.WriteString("copyright: 2024 Acme\n")
	b.WriteString("builder: " + builder + "\n")
	b.WriteString("boilerplate: " + boilerplate + "\n")
	if len(options) > 0 {
		b.WriteString("widgetOptions: [" + strings.Join(options, ", ") + "]\n")
	}
	return b.String()
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// readFile returns the contents of path, failing the test if it is unreadable.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
