package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/metcalfc/booksum/internal/book"
	"github.com/metcalfc/booksum/internal/config"
	"github.com/metcalfc/booksum/internal/splitter"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "chapters <epub>",
		Short: "Split a book and show which chapters would be summarized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			root := cfg.Output.Dir
			if cmd.Flags().Changed("output") {
				if root, err = config.ExpandPath(outputFlag); err != nil {
					return err
				}
			}

			epubPath := args[0]
			proc := splitter.NewProcessor(epubPath, splitter.DefaultOutDir(epubPath, root),
				splitter.New(cfg.Splitter.Binary, logger), logger)
			manifest, err := proc.Manifest(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := manifest.Title
			if manifest.Author != "" {
				title += " by " + manifest.Author
			}
			fmt.Fprintln(out, title)
			fmt.Fprintln(out, renderChapterTable(manifest.Chapters))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (default: next to the epub)")
	return cmd
}

// renderChapterTable lists chapters with the boundary detector's verdict.
func renderChapterTable(chapters []book.ChapterInfo) string {
	r := book.DetectRange(chapters)
	rows := make([][]string, 0, len(chapters))
	selected := 0
	for pos, c := range chapters {
		var section string
		switch {
		case r.Contains(pos):
			section = "content"
			selected++
		case r.Len() == 0:
			section = "excluded"
		case pos < r.Start:
			section = "front"
		default:
			section = "back"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d", c.Index),
			c.Title,
			strconv.Itoa(c.WordCount),
			section,
			c.File,
		})
	}
	table := renderTable([]column{
		{header: "#", align: alignRight},
		{header: "Title", max: 48},
		{header: "Words", align: alignRight},
		{header: "Section"},
		{header: "File", max: 40},
	}, rows)
	return table + fmt.Sprintf("\n%d of %d chapters selected", selected, len(chapters))
}
