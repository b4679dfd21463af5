package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/hassan/stylefmt/internal/config"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the style presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderPresets(cmd.OutOrStdout())
		},
	}
}

func renderPresets(w io.Writer) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))
	table.Header("Style", "Brackets", "Settings")

	presets := config.Presets()
	data := make([][]any, len(presets))
	for i, p := range presets {
		resolved := config.Options{Style: p.Name}.Resolve()
		data[i] = []any{gold(string(p.Name)), string(resolved.Brackets), p.Summary}
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error formatting presets: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering presets: %w", err)
	}
	return nil
}
