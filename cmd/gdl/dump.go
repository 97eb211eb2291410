package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sanonone/epgm/pkg/gdl"
	"github.com/sanonone/epgm/pkg/stream"
)

func dumpCmd(a *app) *cobra.Command {
	var (
		output   string
		appendTo bool
	)
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Load a document and write its elements as a framed stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compression, err := a.cfg.Compression()
			if err != nil {
				return err
			}

			f, err := stream.OpenFile(output, compression, !appendTo)
			if err != nil {
				return err
			}
			if a.temporal {
				err = a.dumpTemporal(f, args[0])
			} else {
				err = a.dumpEPGM(f, args[0])
			}
			if err == nil {
				err = f.Sync()
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				if !appendTo {
					_ = os.Remove(output)
				}
				return err
			}

			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s frames (%s, %s) to %s\n",
				humanize.Comma(int64(f.Frames())), humanize.Bytes(uint64(info.Size())), compression, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Stream file to write")
	cmd.Flags().BoolVar(&appendTo, "append", false, "Append to an existing stream file instead of replacing it")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) dumpEPGM(w stream.ElementWriter, path string) error {
	cfg, err := a.epgmConfig()
	if err != nil {
		return err
	}
	l, err := gdl.FromFile(cfg, path)
	if err != nil {
		return err
	}
	return stream.WriteGraph(w, l.GraphHeads(), l.Vertices(), l.Edges())
}

func (a *app) dumpTemporal(w stream.ElementWriter, path string) error {
	cfg, err := a.temporalConfig()
	if err != nil {
		return err
	}
	l, err := gdl.FromFile(cfg, path)
	if err != nil {
		return err
	}
	return stream.WriteGraph(w, l.GraphHeads(), l.Vertices(), l.Edges())
}
