package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metcalfc/booksum/internal/modes"
)

func newModesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the available summary modes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver := modes.NewResolver(cfg.Prompts.Dir)

			var rows [][]string
			for _, mode := range resolver.Modes() {
				tmpl, err := resolver.Template(mode, modes.Chapter)
				if err != nil {
					return err
				}
				marker := ""
				if string(mode) == cfg.Summary.Mode {
					marker = "*"
				}
				rows = append(rows, []string{string(mode), marker, firstLine(tmpl)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				{header: "Mode"},
				{header: "Default"},
				{header: "Chapter instruction", max: 70},
			}, rows))
			return nil
		},
	}
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(strings.TrimLeft(line, "# ")); line != "" {
			return line
		}
	}
	return ""
}
