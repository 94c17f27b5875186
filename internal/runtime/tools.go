package runtime

import (
	"context"
	"fmt"

	"github.com/widgetgen/widgetgen/internal/manifest"
)

// NpmInstaller installs a project's dependencies with npm.
type NpmInstaller struct {
	Runner *Runner
}

// Install runs "npm install" in dir.
func (n *NpmInstaller) Install(ctx context.Context, dir string) error {
	if err := n.Runner.run(ctx, dir, "npm", "install"); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}
	return nil
}

// TaskRunner runs the default task of the project's build tool.
type TaskRunner struct {
	Runner *Runner
}

// Build runs builder ("grunt" or "gulp") with no arguments in dir.
func (b *TaskRunner) Build(ctx context.Context, dir, builder string) error {
	switch builder {
	case manifest.BuilderGrunt, manifest.BuilderGulp:
	default:
		return fmt.Errorf("unsupported builder %q", builder)
	}
	if err := b.Runner.run(ctx, dir, builder); err != nil {
		return fmt.Errorf("running %s: %w", builder, err)
	}
	return nil
}
