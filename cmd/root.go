package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codextendo",
		Short:         "codextendo: search, label, resume, and summarize agent CLI sessions",
		Long:          "codextendo indexes local session transcripts, searches them by normalized substring match, keeps stable per-session labels, resumes or exports cached results, and maintains incrementally refreshed model summaries.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSearchCmd(app),
		newLabelCmd(app),
		newOpenCmd(app),
		newSummarizeCmd(app),
		newRefreshCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
