package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &verbose)
	flags := &summarizeFlags{}

	rootCmd := &cobra.Command{
		Use:   "booksum [path]",
		Short: "Summarize EPUB books chapter by chapter",
		Long: `booksum splits EPUB books into chapters, picks the chapters that hold the
book proper, summarizes each one with a language model and then writes an
overview of the whole book.

A path may be a single .epub file or a directory of them.`,
		Example: `  booksum ./book.epub
  booksum ./books/ --mode detailed
  booksum ./book.epub -i
  booksum ./book.epub -m concise --model sonnet`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSummarize(cmd, ctx, flags, args[0])
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("booksum %s (commit: %s, built: %s)\n", version, commit, date))

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.register(rootCmd)

	rootCmd.AddCommand(newSummarizeCommand(ctx))
	rootCmd.AddCommand(newChaptersCommand(ctx))
	rootCmd.AddCommand(newModesCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
