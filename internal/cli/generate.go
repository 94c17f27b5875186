package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/widgetgen/widgetgen/internal/config"
	"github.com/widgetgen/widgetgen/internal/pipeline"
	"github.com/widgetgen/widgetgen/internal/prompt"
	"github.com/widgetgen/widgetgen/internal/runtime"
	"github.com/widgetgen/widgetgen/internal/scaffold"
	"golang.org/x/term"
)

var (
	generateAnswers     string
	generateSkipInstall bool
	generateSkipBuild   bool
	generateDryRun      bool
)

// errNoTerminal is returned when answers would have to be read from a
// non-interactive stdin.
var errNoTerminal = errors.New("stdin is not a terminal; pass --answers <file> for unattended runs")

func init() {
	generateCmd.Flags().StringVar(&generateAnswers, "answers", "", "Read answers from a YAML or TOML file instead of prompting")
	generateCmd.Flags().BoolVar(&generateSkipInstall, "skip-install", false, "Do not run npm install after writing files")
	generateCmd.Flags().BoolVar(&generateSkipBuild, "skip-build", false, "Do not run the build tool after installing")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Show what would be written without touching the disk")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:     "generate [dir]",
	Aliases: []string{"gen"},
	Short:   "Create a new widget or upgrade an existing one",
	Long: heredoc.Doc(`
		Create a new widget project, or upgrade the build configuration of an
		existing one, in dir (default: the current directory).

		An empty or missing directory gets a new project from the chosen starter
		template. A directory with a src/ folder is treated as an existing widget:
		its metadata is read from package.json and src/package.xml, and after
		confirmation only the generated configuration files are rewritten.

		Examples:
		  widgetgen generate ./Clock
		  widgetgen generate --answers answers.yaml --skip-install
		  widgetgen generate --dry-run
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}

	fsys := afero.NewOsFs()
	out := cmd.OutOrStdout()

	var prompter pipeline.Prompter
	if generateAnswers != "" {
		f, err := prompt.LoadFile(fsys, generateAnswers, logger)
		if err != nil {
			return err
		}
		prompter = f
	} else {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			return errNoTerminal
		}
		prompter = prompt.NewTerminal(in, out)
	}

	orchestrator := scaffold.New(fsys, logger)
	orchestrator.DryRun = generateDryRun

	runner := &runtime.Runner{Stdout: out, Stderr: cmd.ErrOrStderr(), Log: logger}

	p := &pipeline.Pipeline{
		Fs:       fsys,
		Prompter: prompter,
		Scaffold: orchestrator,
		DryRun:   generateDryRun,
		Defaults: config.Defaults(),
		Version:  buildVersion,
		Out:      out,
		Log:      logger,
	}
	if !generateSkipInstall && !config.SkipInstall() {
		p.Installer = &runtime.NpmInstaller{Runner: runner}
	}
	if !generateSkipBuild {
		p.Builder = &runtime.TaskRunner{Runner: runner}
	}

	c, err := p.Run(cmd.Context(), root)
	printRun(out, c, generateDryRun)
	return err
}

func printRun(w io.Writer, c pipeline.Context, dryRun bool) {
	for _, msg := range c.Warnings {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("Warning:"), msg)
	}

	switch c.Outcome {
	case pipeline.OutcomeDeclined:
		fmt.Fprintln(w, color.YellowString("Upgrade declined. Nothing was changed."))
		return
	case pipeline.OutcomeFailed:
		return
	}

	res := c.Result
	if res == nil {
		return
	}

	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}
	for _, name := range res.Removed {
		fmt.Fprintf(w, "  %s %s\n", color.RedString("-"), name)
	}
	for _, name := range res.Files {
		fmt.Fprintf(w, "  %s %s\n", color.GreenString("+"), name)
	}
	for _, d := range res.Diffs {
		fmt.Fprintln(w)
		fmt.Fprint(w, d.Diff)
	}

	action := "created"
	if !c.State.IsNew {
		action = "upgraded"
	}
	fmt.Fprintf(w, "\n%s %d files. Widget %s %s in %s.\n",
		verb, len(res.Files), color.CyanString(c.Config.WidgetName), action, res.Root)
}
