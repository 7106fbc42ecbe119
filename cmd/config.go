package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type configSchema struct {
	Sessions  sessionsSchema  `toml:"sessions"`
	Summaries summariesSchema `toml:"summaries"`
	Labels    labelsSchema    `toml:"labels"`
	Cache     cacheSchema     `toml:"cache"`
	Search    searchSchema    `toml:"search"`
	Summary   summarySchema   `toml:"summary"`
	Resume    resumeSchema    `toml:"resume"`
}

type sessionsSchema struct {
	Dir string `toml:"dir"`
}

type summariesSchema struct {
	Dir string `toml:"dir"`
}

type labelsSchema struct {
	Path string `toml:"path"`
}

type cacheSchema struct {
	Path string `toml:"path"`
}

type searchSchema struct {
	Limit       int      `toml:"limit"`
	SkipPhrases []string `toml:"skip_phrases"`
}

type summarySchema struct {
	Model      string `toml:"model"`
	TokenLimit int    `toml:"token_limit"`
}

type resumeSchema struct {
	Command  string `toml:"command"`
	Prompt   string `toml:"prompt"`
	Disabled bool   `toml:"disabled"`
}

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd(app))

	return cmd
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file populated with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(app.configDir, "config.toml")

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("stat config file: %w", err)
				}
			}

			schema := configSchema{
				Sessions:  sessionsSchema{Dir: app.cfg.GetString("sessions.dir")},
				Summaries: summariesSchema{Dir: app.cfg.GetString("summaries.dir")},
				Labels:    labelsSchema{Path: app.cfg.GetString("labels.path")},
				Cache:     cacheSchema{Path: app.cfg.GetString("cache.path")},
				Search: searchSchema{
					Limit:       app.cfg.GetInt("search.limit"),
					SkipPhrases: app.cfg.GetStringSlice("search.skip_phrases"),
				},
				Summary: summarySchema{
					Model:      app.cfg.GetString("summary.model"),
					TokenLimit: app.cfg.GetInt("summary.token_limit"),
				},
				Resume: resumeSchema{
					Command:  app.cfg.GetString("resume.command"),
					Prompt:   app.cfg.GetString("resume.prompt"),
					Disabled: app.cfg.GetBool("resume.disabled"),
				},
			}

			data, err := toml.Marshal(schema)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			if err := os.MkdirAll(app.configDir, 0o700); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Config written -> %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
