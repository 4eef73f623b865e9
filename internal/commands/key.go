package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newKeyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the OpenRouter API key",
		Long: `Manage the OpenRouter API key kept in the local store.

A stored key takes precedence over ai.api_key from the config file or the
AINOTES_AI_API_KEY environment variable.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Store an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("key must not be empty")
			}
			rt, err := openRuntime(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Keys.SetKey(cmd.Context(), key); err != nil {
				return fmt.Errorf("failed to store key: %w", err)
			}
			masked, err := rt.Keys.MaskedKey(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved: %s\n", masked)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Keys.ClearKey(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the API key in use, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.Keys.IsValid(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key configured")
				return nil
			}
			masked, err := rt.Keys.MaskedKey(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), masked)
			return nil
		},
	})

	return cmd
}
