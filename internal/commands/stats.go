package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := openRuntime(ctx, opts.configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			st, err := rt.Controllers.Dashboard.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}
			if err := rt.Controllers.Projects.Load(ctx); err != nil {
				return fmt.Errorf("failed to read projects: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", st.Date, st.Weekday)
			fmt.Fprintf(out, "Notes:     %d\n", st.Notes)
			fmt.Fprintf(out, "Todos:     %d (%d done, %d pending)\n", st.Todos.Total, st.Todos.Completed, st.Todos.Pending)
			fmt.Fprintf(out, "Completed: %d%%\n", st.Todos.Percent)
			fmt.Fprintf(out, "Projects:  %d\n", len(rt.Controllers.Projects.Items()))
			return nil
		},
	}
}
