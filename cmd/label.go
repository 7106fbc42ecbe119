package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/codextendo/internal/domain"
)

func newLabelCmd(app *app) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "label <index> [name]...",
		Short: "Set or clear a session label by search result index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			entry, err := app.cache.Resolve(cmd.Context(), index)
			if err != nil {
				return err
			}

			if clear {
				if len(args) > 1 {
					return fmt.Errorf("--clear takes no label name")
				}
				return runLabelClear(cmd, app, entry)
			}

			name := strings.Join(args[1:], " ")
			if strings.TrimSpace(name) == "" {
				return domain.ErrBlankTitle
			}

			result, err := app.labelService.Set(cmd.Context(), entry.Path, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.Unchanged:
				_, err = fmt.Fprintf(out, "Label already set to %q.\n", result.Applied)
			case result.Renamed:
				_, err = fmt.Fprintf(out, "Label saved as %q (%q is already in use by another session).\n", result.Applied, strings.TrimSpace(name))
			default:
				_, err = fmt.Fprintf(out, "Label saved: %q.\n", result.Applied)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the session's label")

	return cmd
}

func runLabelClear(cmd *cobra.Command, app *app, entry domain.MatchEntry) error {
	result, err := app.labelService.Clear(cmd.Context(), entry.Path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Removed {
		_, err = fmt.Fprintln(out, "No label was set; nothing removed.")
		return err
	}

	_, err = fmt.Fprintf(out, "Removed label %q.\n", result.Previous)
	return err
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("index must be a number, got %q", raw)
	}

	return index, nil
}
