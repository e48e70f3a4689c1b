package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/arloliu/jseis/endian"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <dataset>",
		Short: "Print geometry, formats and header schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(cmd, args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			g := ds.Geometry()
			codec := ds.Codec()
			s := ds.Schema()
			traceBytes := uint64(g.TraceCount()) * uint64(codec.RecordSize())
			headerBytes := uint64(g.TraceCount()) * uint64(s.TotalBytes())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:        %s\n", ds.DescriptiveName())
			fmt.Fprintf(out, "ID:          %s\n", ds.ID())
			fmt.Fprintf(out, "Geometry:    %d samples x %d traces x %d frames x %d volumes\n",
				g.SampleCount, g.TracesPerFrame, g.FrameCount, g.VolumeCount)
			fmt.Fprintf(out, "Traces:      %s\n", humanize.Comma(g.TraceCount()))
			order := endian.Name(ds.ByteOrder())
			if endian.IsNative(ds.ByteOrder()) {
				order += " (native)"
			}
			fmt.Fprintf(out, "Byte order:  %s\n", order)
			fmt.Fprintf(out, "Format:      %s (%s per trace, %s total)\n",
				codec.Format(), humanize.IBytes(uint64(codec.RecordSize())), humanize.IBytes(traceBytes))
			fmt.Fprintf(out, "Headers:     %s per trace, %s total\n",
				humanize.IBytes(uint64(s.TotalBytes())), humanize.IBytes(headerBytes))
			fmt.Fprintf(out, "Has traces:  %t\n", ds.HasTraces())
			fmt.Fprintf(out, "Live frames: %d of %d\n", ds.LiveFrames(), g.FrameTotal())
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tKIND\tCOUNT\tOFFSET\tDESCRIPTION")
			for _, f := range s.Fields() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", f.Label, f.Kind, f.Count, f.Offset, f.Description)
			}

			return tw.Flush()
		},
	}
}

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <dataset> <index>",
		Short: "Print every field of one header record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			ds, err := openDataset(cmd, args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			h, err := ds.ReadHeader(index)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, slot := range h.Layout().Slots() {
				if slot.Kind.IsFloat() {
					vals, err := h.Floats(slot.Label)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%s\t%v\n", slot.Label, formatFloats(vals))

					continue
				}
				for e := range slot.Count {
					v, err := h.IntAt(slot.Label, e)
					if err != nil {
						return err
					}
					label := slot.Label
					if slot.Count > 1 {
						label = fmt.Sprintf("%s[%d]", slot.Label, e)
					}
					fmt.Fprintf(tw, "%s\t%d\n", label, v)
				}
			}

			return tw.Flush()
		},
	}
}

func newTraceCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "trace <dataset> <index>",
		Short: "Print the decoded samples of one trace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			ds, err := openDataset(cmd, args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			samples, err := ds.ReadTrace(index)
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(samples) {
				samples = samples[:limit]
			}

			out := cmd.OutOrStdout()
			for i, v := range samples {
				fmt.Fprintf(out, "%d\t%g\n", i, v)
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Print at most n samples (0 prints all)")

	return cmd
}

func newFoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fold <dataset>",
		Short: "Print the live trace count of every frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(cmd, args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			g := ds.Geometry()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VOLUME\tFRAME\tFOLD")
			for v := range g.VolumeCount {
				for f := range g.FrameCount {
					n, err := ds.Fold(f, v)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%d\t%d\t%d\n", v, f, n)
				}
			}

			return tw.Flush()
		},
	}
}

func parseIndex(s string) (int64, error) {
	index, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid trace index %q: %w", s, err)
	}

	return index, nil
}

func formatFloats(vals []float64) string {
	if len(vals) == 1 {
		return strconv.FormatFloat(vals[0], 'g', -1, 64)
	}

	return fmt.Sprint(vals)
}
