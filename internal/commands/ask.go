package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/models"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		model string
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask the assistant a single question",
		Long: `Send one message to the assistant and print the reply.

With --save the exchange is stored as a new chat session, visible in the
chat view.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				return fmt.Errorf("prompt must not be empty")
			}
			if model != "" {
				if _, ok := ai.LookupModel(model); !ok {
					return fmt.Errorf("unknown model %q", model)
				}
			}

			ctx := cmd.Context()
			rt, err := openRuntime(ctx, opts.configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			var reply string
			if save {
				chat := rt.Controllers.Chat
				session, err := chat.Create(ctx)
				if err != nil {
					return fmt.Errorf("failed to create session: %w", err)
				}
				if model != "" {
					if err := chat.SetModel(session.ID, model); err != nil {
						return err
					}
				}
				session, err = chat.Send(ctx, prompt)
				if err != nil {
					return fmt.Errorf("ask failed: %w", err)
				}
				reply = session.Messages[len(session.Messages)-1].Content
			} else {
				key, err := rt.Keys.Key(ctx)
				if err != nil {
					return fmt.Errorf("failed to read key: %w", err)
				}
				messages := []models.ChatMessage{{Role: models.RoleUser, Content: prompt}}
				reply, err = rt.AI.Complete(ctx, messages, key, model)
				if err != nil {
					return fmt.Errorf("ask failed: %w", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (default from ai.model)")
	cmd.Flags().BoolVar(&save, "save", false, "store the exchange as a chat session")
	return cmd
}
