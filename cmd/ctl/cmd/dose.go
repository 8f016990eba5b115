package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dose"
	"github.com/jpfielding/brachy.go/pkg/util"
	"github.com/spf13/cobra"
)

func read3DDose(path string) (*dose.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := dose.Read3DDose(f)
	if err != nil {
		return nil, &dose.ConversionError{Stage: "read 3ddose", Err: fmt.Errorf("%s: %w", path, err)}
	}
	return g, nil
}

// NewToDICOMCmd converts an egs_brachy .3ddose grid into an RT Dose file
func NewToDICOMCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todicom <in.3ddose> <out.dcm>",
		Short: ".3ddose to RT Dose",
		Long:  "writes the dose grid as 32-bit RT Dose; identifiers come from the rtdose config section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := read3DDose(args[0])
			if err != nil {
				return err
			}
			rc := a.cfg.RTDose
			meta := dose.Meta{
				PatientName:         rc.PatientName,
				PatientID:           rc.PatientID,
				StudyUID:            rc.StudyUID,
				FrameOfReferenceUID: rc.FrameOfReferenceUID,
				// the same grid always converts to the same instance
				SOPInstanceUID: util.DeriveUID(g),
			}
			if rc.Template != "" {
				if meta.Template, err = dose.LoadTemplate(rc.Template); err != nil {
					return &dose.ConversionError{Stage: "template", Err: err}
				}
			}
			if err := writeFile(args[1], func(w io.Writer) error { return dose.ToRTDose(w, g, meta) }); err != nil {
				return err
			}
			slog.InfoContext(ctx, "wrote RT Dose", "path", args[1], "voxels", g.Len(), "max", g.Max())
			return nil
		},
	}
	cmd.Flags().String("template", "", "RT Dose template overriding the embedded one")
	cmd.Flags().String("patient-id", "", "Patient ID written to the RT Dose")
	cmd.Flags().String("patient-name", "", "Patient's Name written to the RT Dose")
	return cmd
}

// NewTo3DDoseCmd converts an RT Dose file back into .3ddose
func NewTo3DDoseCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "to3ddose <in.dcm> <out.3ddose>",
		Short: "RT Dose to .3ddose",
		Long:  "reads a 16 or 32-bit RT Dose and writes the scaled grid in cm",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := dicom.ReadFile(ctx, args[0])
			if err != nil {
				return &dose.ConversionError{Stage: "parse", Err: err}
			}
			if m := f.Modality(); m != "RTDOSE" {
				slog.WarnContext(ctx, "converting a non RTDOSE file", "path", args[0], "modality", m)
			}
			g, err := dose.FromRTDose(f)
			if err != nil {
				return err
			}
			if err := writeFile(args[1], func(w io.Writer) error { return dose.Write3DDose(w, g) }); err != nil {
				return &dose.ConversionError{Stage: "write 3ddose", Err: err}
			}
			slog.InfoContext(ctx, "wrote 3ddose", "path", args[1], "voxels", g.Len())
			return nil
		},
	}
	return cmd
}
