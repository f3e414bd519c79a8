package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"discset/internal/config"
	"discset/internal/grouping"
	"discset/internal/naming"
	"discset/internal/scan"
	"discset/internal/selection"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [platform...]",
		Short: "List disk candidates and the set each would join, without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return renderScan(cmd.OutOrStdout(), cfg, args)
		},
	}
}

func renderScan(out io.Writer, cfg *config.Config, only []string) error {
	opts := scan.Options{
		Platforms:         cfg.Scan.Platforms,
		IgnoreExtensions:  cfg.Scan.IgnoreExtensions,
		PlaylistExtension: cfg.Playlist.Extension,
	}
	if len(only) > 0 {
		opts.Platforms = only
	}
	platforms, err := scan.Walk(cfg.Paths.RomsDir, opts)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, p := range platforms {
		var cands []naming.Candidate
		for _, f := range p.Files {
			if c, ok := naming.Parse(f.Name, f.Dir); ok {
				cands = append(cands, c)
			}
		}
		if len(cands) == 0 {
			continue
		}
		idx := grouping.Build(cands)
		sets := membership(idx)
		for _, g := range idx.Groups {
			for _, c := range g.Members {
				rows = append(rows, []string{
					p.Name,
					relPath(p.Root, c.Path()),
					c.Prefix,
					diskLabel(c),
					c.TagsKey,
					c.Alt,
					sets[c.Path()],
				})
			}
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No disk candidates found")
		return nil
	}
	newPrinter(out).table(tableSpec{
		headers: []string{"Platform", "File", "Title", "Disk", "Tags", "Alt", "Set"},
		rows:    rows,
		right:   []int{3},
	})
	return nil
}

// membership maps each candidate path to the set name it would be written
// under. Suppressed sets are left out; incomplete ones are marked.
func membership(idx *grouping.Index) map[string]string {
	out := make(map[string]string)
	for _, g := range idx.Groups {
		for _, s := range selection.Select(idx, g) {
			if s.Suppressed {
				continue
			}
			name := naming.SetName(s.Members)
			if s.Incomplete {
				name += " (incomplete)"
			}
			for _, m := range s.Members {
				if _, ok := out[m.Path()]; !ok {
					out[m.Path()] = name
				}
			}
		}
	}
	return out
}

func diskLabel(c naming.Candidate) string {
	if c.Disk == 0 {
		return "?"
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(c.Disk))
	if c.Side > 0 {
		b.WriteString(string(rune('A' + c.Side - 1)))
	}
	if c.Total > 0 {
		b.WriteString("/" + strconv.Itoa(c.Total))
	}
	return b.String()
}

