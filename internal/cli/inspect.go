package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/widgetgen/widgetgen/internal/project"
)

var inspectJSON bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the detected state as JSON")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Show what generate would detect in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		root, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", dir, err)
		}

		state, err := project.Detect(afero.NewOsFs(), root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if inspectJSON {
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling state: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		printState(out, state)
		return nil
	},
}

func printState(w io.Writer, s *project.State) {
	if s.IsNew {
		fmt.Fprintf(w, "%s is empty: generate will create a new widget.\n", s.Root)
		return
	}

	cur := s.Current
	fmt.Fprintf(w, "Existing widget in %s\n\n", s.Root)
	field := func(label, value string) {
		if value == "" {
			value = color.New(color.Faint).Sprint("(not set)")
		}
		fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
	}
	field("Name", cur.Name)
	field("Version", cur.Version)
	field("Description", cur.Description)
	field("Author", cur.Author)
	field("Copyright", cur.Copyright)
	field("License", cur.License)
	field("Builder", cur.Builder)
}
