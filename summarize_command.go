package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/config"
	"github.com/metcalfc/booksum/internal/modes"
	"github.com/metcalfc/booksum/internal/pipeline"
	"github.com/metcalfc/booksum/internal/provider"
	"github.com/metcalfc/booksum/internal/splitter"
	"github.com/metcalfc/booksum/internal/state"
	"github.com/metcalfc/booksum/internal/ui"
)

// summarizeFlags override configuration for a single run.
type summarizeFlags struct {
	output       string
	mode         string
	provider     string
	model        string
	skipExisting bool
	interactive  bool
	combined     bool
	html         bool
}

func (f *summarizeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "Output directory (default: next to each epub)")
	fl.StringVarP(&f.mode, "mode", "m", "", "Summary mode: concise or detailed")
	fl.StringVar(&f.provider, "provider", "", "Backend: claude-cli, anthropic-api or openai")
	fl.StringVar(&f.model, "model", "", "Model to use (default depends on the provider)")
	fl.BoolVar(&f.skipExisting, "skip-existing", false, "Skip books that already have a summary")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "Interactively select chapters to summarize")
	fl.BoolVar(&f.combined, "combined", false, "Also write one document with every chapter summary")
	fl.BoolVar(&f.html, "html", false, "Render the combined document to HTML")
}

// apply copies explicitly set flags over cfg.
func (f *summarizeFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("output") {
		dir, err := config.ExpandPath(f.output)
		if err != nil {
			return err
		}
		cfg.Output.Dir = dir
	}
	if fl.Changed("mode") {
		cfg.Summary.Mode = strings.ToLower(strings.TrimSpace(f.mode))
	}
	if fl.Changed("provider") {
		cfg.Summary.Provider = strings.ToLower(strings.TrimSpace(f.provider))
		// a model configured for another backend would not make sense
		if !fl.Changed("model") {
			cfg.Summary.Model = ""
		}
	}
	if fl.Changed("model") {
		cfg.Summary.Model = strings.TrimSpace(f.model)
	}
	if fl.Changed("skip-existing") {
		cfg.Summary.SkipExisting = f.skipExisting
	}
	if fl.Changed("combined") {
		cfg.Output.Combined = f.combined
	}
	if fl.Changed("html") {
		cfg.Output.HTML = f.html
		if f.html {
			cfg.Output.Combined = true
		}
	}
	return cfg.Validate()
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	flags := &summarizeFlags{}
	cmd := &cobra.Command{
		Use:   "summarize <path>",
		Short: "Summarize an epub file or a directory of epubs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, ctx, flags, args[0])
		},
	}
	flags.register(cmd)
	return cmd
}

func runSummarize(cmd *cobra.Command, ctx *commandContext, flags *summarizeFlags, path string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := flags.apply(cmd, &cfg); err != nil {
		return err
	}

	logger, err := ctx.logger(cmd, &cfg)
	if err != nil {
		return err
	}

	gen, err := provider.New(cfg.ProviderConfig())
	if err != nil {
		return err
	}
	history, err := state.NewHistoryStore(cfg.State.Dir)
	if err != nil {
		logger.Warn("run history disabled", "error", err)
	}

	driver, err := pipeline.NewDriver(pipeline.Deps{
		Splitter: splitter.New(cfg.Splitter.Binary, logger),
		Selector: ui.New(flags.interactive, cmd.InOrStdin(), cmd.OutOrStdout()),
		Resolver: modes.NewResolver(cfg.Prompts.Dir),
		Provider: gen,
		History:  history,
		Logger:   logger,
	}, pipeline.Options{
		Mode:         book.Mode(cfg.Summary.Mode),
		OutputRoot:   cfg.Output.Dir,
		SkipExisting: cfg.Summary.SkipExisting,
		Combined:     cfg.Output.Combined,
		HTML:         cfg.Output.HTML,
		Generate:     cfg.GenerateOptions(),
	})
	if err != nil {
		return err
	}

	report, err := driver.Run(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range report.Results {
		if res.Skipped {
			fmt.Fprintf(out, "skipped  %s (%s)\n", filepath.Base(res.EpubPath), res.SkipReason)
			continue
		}
		fmt.Fprintf(out, "done     %s -> %s\n", filepath.Base(res.EpubPath), res.SummaryPath)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(out, "failed   %s: %v\n", filepath.Base(f.EpubPath), f.Err)
	}
	total := len(report.Results) + len(report.Failures)
	fmt.Fprintf(out, "%d summarized, %d skipped, %d failed\n", report.Done(), report.SkippedCount(), len(report.Failures))

	if n := len(report.Failures); n > 0 {
		return fmt.Errorf("%d of %d books failed", n, total)
	}
	return nil
}
