package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sanonone/epgm/pkg/gdl"
	"github.com/sanonone/epgm/pkg/model"
)

// fileStats summarizes one loaded document.
type fileStats struct {
	Path       string
	Size       int64
	GraphHeads int
	Vertices   int
	Edges      int
}

func statsCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Load documents and print element counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				stats []fileStats
				err   error
			)
			if a.temporal {
				cfg, cerr := a.temporalConfig()
				if cerr != nil {
					return cerr
				}
				stats, err = collectStats(cfg, args, jobs)
			} else {
				cfg, cerr := a.epgmConfig()
				if cerr != nil {
					return cerr
				}
				stats, err = collectStats(cfg, args, jobs)
			}
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Number of documents loaded concurrently")
	return cmd
}

// collectStats loads every path independently, at most jobs at a time, and
// returns the first error once all loads have finished.
func collectStats[G model.GraphHead, V model.Vertex, E model.Edge](cfg gdl.Config[G, V, E], paths []string, jobs int) ([]fileStats, error) {
	out := make([]fileStats, len(paths))
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			info, err := os.Stat(path)
			if err != nil {
				return &gdl.ResourceError{Name: path, Err: err}
			}
			l, err := gdl.FromFile(cfg, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out[i] = fileStats{
				Path:       path,
				Size:       info.Size(),
				GraphHeads: len(l.GraphHeads()),
				Vertices:   len(l.Vertices()),
				Edges:      len(l.Edges()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func printStats(w io.Writer, stats []fileStats) {
	var total fileStats
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\tgraphs=%s vertices=%s edges=%s\n",
			s.Path, humanize.Bytes(uint64(s.Size)),
			humanize.Comma(int64(s.GraphHeads)), humanize.Comma(int64(s.Vertices)), humanize.Comma(int64(s.Edges)))
		total.Size += s.Size
		total.GraphHeads += s.GraphHeads
		total.Vertices += s.Vertices
		total.Edges += s.Edges
	}
	if len(stats) > 1 {
		fmt.Fprintf(w, "total\t%s\tgraphs=%s vertices=%s edges=%s\n",
			humanize.Bytes(uint64(total.Size)),
			humanize.Comma(int64(total.GraphHeads)), humanize.Comma(int64(total.Vertices)), humanize.Comma(int64(total.Edges)))
	}
}
