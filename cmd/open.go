package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/codextendo/internal/adapters/launch"
	"github.com/bnema/codextendo/internal/application"
	"github.com/bnema/codextendo/internal/domain"
)

func newOpenCmd(app *app) *cobra.Command {
	var (
		exportTranscript bool
		noResume         bool
		noPrompt         bool
		query            string
		promptOverride   string
	)

	cmd := &cobra.Command{
		Use:   "open <index>",
		Short: "Resume and/or export a cached search result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			entry, err := app.cache.Resolve(cmd.Context(), index)
			if err != nil {
				return err
			}

			// The open mode is decided once, here at the boundary.
			mode := domain.OpenResume
			switch {
			case exportTranscript && noResume:
				mode = domain.OpenExport
			case exportTranscript:
				mode = domain.OpenBoth
			case noResume:
				mode = domain.OpenNone
			}

			launcher := &launch.CodexLauncher{
				Command: app.cfg.GetString("resume.command"),
				Stdin:   cmd.InOrStdin(),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			}

			service := application.NewOpenService(app.corpus, launcher, app.writer)
			result, err := service.Open(cmd.Context(), application.OpenRequest{
				Entry: entry,
				Mode:  mode,
				Query: query,
				Prompt: application.PromptConfig{
					Disabled: noPrompt || app.cfg.GetBool("resume.disabled"),
					Override: promptOverride,
					Default:  app.cfg.GetString("resume.prompt"),
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.TranscriptPath != "" {
				if _, err := fmt.Fprintf(out, "Transcript exported -> %s\n", result.TranscriptPath); err != nil {
					return err
				}
			}
			if mode == domain.OpenNone {
				if _, err := fmt.Fprintf(out, "Session %s (%s); nothing opened.\n", result.SessionID, entry.Path); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&exportTranscript, "export", false, "Write the session transcript as Markdown")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "Do not resume the session")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Resume without a first-turn context message")
	cmd.Flags().StringVar(&query, "query", "", "Originating search query, annotated into the context message")
	cmd.Flags().StringVar(&promptOverride, "prompt", "", "Send this exact first-turn message instead of the default")

	return cmd
}
