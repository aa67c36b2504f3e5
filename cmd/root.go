package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vnda",
		Short:         "vnda: query the visual novel database from the terminal",
		Long:          "vnda talks to the visual novel database over its line protocol, keeps one login per session, and caches fetched entries locally so repeated lookups work offline.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp(rootCmd)
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSearchCmd(app),
		newGetCmd(app),
		newLoginCmd(app),
		newReplCmd(app),
		newCacheCmd(app),
		newConfigCmd(app),
	)
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		app.close()
	}

	return rootCmd
}
