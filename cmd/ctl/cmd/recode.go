package cmd

import (
	"context"
	"io"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/transfer"
	"github.com/spf13/cobra"
)

// NewRecodeCmd rewrites a DICOM file as explicit VR little endian, optionally RLE compressed
func NewRecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recode <in.dcm> <out.dcm>",
		Short: "re-encode a DICOM file",
		Long:  "parses any supported DICOM file and writes it as explicit VR little endian; --rle compresses native pixel data to RLE Lossless, RLE input is expanded otherwise",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := dicom.ReadFile(ctx, args[0])
			if err != nil {
				return err
			}
			syntax := transfer.ExplicitVRLittleEndian
			if compress, _ := cmd.Flags().GetBool("rle"); compress {
				syntax = transfer.RLELossless
			}
			return writeFile(args[1], func(w io.Writer) error {
				return dicom.Recode(w, f, syntax)
			})
		},
	}
	cmd.Flags().Bool("rle", false, "compress pixel data with RLE Lossless")
	return cmd
}
