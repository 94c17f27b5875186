package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/widgetgen/widgetgen/internal/branding"
	"github.com/widgetgen/widgetgen/internal/config"
	"github.com/widgetgen/widgetgen/internal/manifest"
)

// tools the generated projects rely on, with the hint printed when missing.
var doctorTools = []struct {
	name string
	hint string
}{
	{"node", "install Node.js from https://nodejs.org"},
	{"npm", "ships with Node.js"},
	{"grunt", "npm install -g grunt-cli"},
	{"gulp", "npm install -g gulp-cli"},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Check the environment and a widget's package.json",
	Long: heredoc.Doc(`
		Check that the tools a generated widget needs are on PATH, and list the
		environment variables overriding the config file. When dir holds a
		package.json, it is also validated against the descriptor schema.
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ok := checkTools(out)

		fmt.Fprintf(out, "\nConfig file: %s\n", config.FilePath())
		if _, err := os.Stat(config.FilePath()); err != nil {
			fmt.Fprintln(out, "  (not created yet, defaults apply)")
		}
		printOverrides(out)

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		valid, err := checkPackage(out, dir)
		if err != nil {
			return err
		}
		if !ok || !valid {
			return fmt.Errorf("doctor found problems")
		}
		return nil
	},
}

func checkTools(w io.Writer) bool {
	fmt.Fprintln(w, "Tools:")
	ok := true
	for _, tool := range doctorTools {
		path, err := exec.LookPath(tool.name)
		if err != nil {
			// grunt and gulp are usually project-local; only one builder is needed.
			if tool.name == "grunt" || tool.name == "gulp" {
				fmt.Fprintf(w, "  %s %-6s not on PATH (%s)\n", color.YellowString("!"), tool.name, tool.hint)
				continue
			}
			fmt.Fprintf(w, "  %s %-6s missing (%s)\n", color.RedString("✗"), tool.name, tool.hint)
			ok = false
			continue
		}
		fmt.Fprintf(w, "  %s %-6s %s\n", color.GreenString("✓"), tool.name, path)
	}
	return ok
}

// printOverrides lists the config keys set through the environment.
func printOverrides(w io.Writer) {
	fmt.Fprintln(w, "\nEnvironment overrides:")
	found := false
	for _, key := range config.Keys {
		name := branding.EnvVar(key)
		if value, ok := os.LookupEnv(name); ok {
			fmt.Fprintf(w, "  %s=%s\n", name, value)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(w, "  (none)")
	}
}

func checkPackage(w io.Writer, dir string) (bool, error) {
	path := filepath.Join(dir, manifest.PackageJSONFile)
	fsys := afero.NewOsFs()
	if exists, _ := afero.Exists(fsys, path); !exists {
		return true, nil
	}

	result, err := manifest.ValidateFile(fsys, path)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(w, "\n%s:\n", path)
	if result.Valid {
		fmt.Fprintf(w, "  %s valid\n", color.GreenString("✓"))
		return true, nil
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s %s\n", color.RedString("✗"), strings.TrimSpace(issue.String()))
	}
	return false, nil
}
