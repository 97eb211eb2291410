package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sanonone/epgm/pkg/stream"
)

func inspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect STREAM",
		Short: "List the elements of a framed stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open stream file: %w", err)
			}
			defer f.Close()

			decode := stream.DecodeEPGM
			if a.temporal {
				decode = stream.DecodeTemporal
			}

			out := cmd.OutOrStdout()
			counts := make(map[stream.Op]int64)
			r := stream.NewReader(f)
			for {
				frame, err := r.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				el, err := decode(frame)
				if err != nil {
					return err
				}
				counts[frame.Op]++
				fmt.Fprintf(out, "%-10s %s\n", frame.Op, el)
			}
			fmt.Fprintf(out, "%s bytes: graphs=%s vertices=%s edges=%s\n",
				humanize.Comma(r.Offset()),
				humanize.Comma(counts[stream.OpGraphHead]),
				humanize.Comma(counts[stream.OpVertex]),
				humanize.Comma(counts[stream.OpEdge]))
			return nil
		},
	}
}
