package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jpfielding/brachy.go/pkg/dvh"
	"github.com/spf13/cobra"
)

// readLabels parses whitespace separated integer voxel labels in grid order
func readLabels(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var labels []int
	for sc.Scan() {
		l, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", len(labels)+1, err)
		}
		labels = append(labels, l)
	}
	return labels, sc.Err()
}

// NewDVHCmd reports dose volume metrics for a .3ddose grid
func NewDVHCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dvh <in.3ddose>",
		Short: "DVH metrics",
		Long:  "computes the cumulative DVH of the whole grid, or of the voxels carrying --label in --labels, and prints metrics as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := read3DDose(args[0])
			if err != nil {
				return err
			}
			labelsPath, _ := cmd.Flags().GetString("labels")
			label, _ := cmd.Flags().GetInt("label")
			name, _ := cmd.Flags().GetString("name")

			var labels []int
			if labelsPath != "" {
				f, err := os.Open(labelsPath)
				if err != nil {
					return err
				}
				labels, err = readLabels(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", labelsPath, err)
				}
			} else {
				label = dvh.AllVoxels
			}

			h, err := dvh.Compute(g, labels, label)
			if err != nil {
				return err
			}
			body := h
			if label != dvh.AllVoxels {
				if body, err = dvh.Compute(g, nil, dvh.AllVoxels); err != nil {
					return err
				}
			}
			opts := dvh.Options{
				Prescription: a.cfg.DVH.Prescription,
				Dx:           a.cfg.DVH.Dx,
				Vx:           a.cfg.DVH.Vx,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dvh.Summarize(name, h, body, opts))
		},
	}
	f := cmd.Flags()
	f.String("labels", "", "file of integer voxel labels, one per voxel in grid order")
	f.Int("label", 1, "label selecting the structure voxels")
	f.String("name", "grid", "structure name in the report")
	f.Float64("prescription", 0, "prescription dose in Gy, enables Vx and the indices")
	f.StringSlice("dx", nil, "Dx levels in percent of volume")
	f.StringSlice("vx", nil, "Vx levels in percent of prescription")
	return cmd
}
