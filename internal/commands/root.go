package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/ainotes/internal/ui"
)

type rootOptions struct {
	configPath string
}

// NewRootCmd builds the ainotes command tree. Running it without a
// subcommand launches the TUI.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ainotes",
		Short: "Notes, todos, projects and AI chat in the terminal",
		Long: `ainotes keeps notes, todos and projects in a local store and lets you chat
with a language model through OpenRouter.

Navigation:
  - Use 1-5 to switch between dashboard, notes, todos, projects and chat
  - Use arrow keys or j/k to navigate lists
  - Press '?' for the keys of the current view
  - Press 'q' to quit`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ainotes/config.yaml)")

	root.AddCommand(
		newKeyCmd(opts),
		newAskCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	rt, err := openRuntime(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Log.Info("starting tui")
	app := ui.NewApp(rt.KV, rt.Controllers, rt.Log)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}
	return nil
}
