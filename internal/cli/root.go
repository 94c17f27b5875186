package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/widgetgen/widgetgen/internal/branding"
	"github.com/widgetgen/widgetgen/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

// logger is configured before every command runs.
var logger = zerolog.Nop()

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every step of the run to stderr")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: heredoc.Docf(`
		%s scaffolds new widget projects and upgrades the build configuration
		of existing ones.

		Run it in an empty directory to create a widget from a starter template,
		or in the root of an existing widget project to regenerate its package.json,
		build file, and lint, test, and bundler configuration. Source files of an
		existing widget are never touched.
	`, branding.DisplayName()),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
	}
	return err
}
