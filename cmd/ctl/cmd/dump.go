package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/spf13/cobra"
)

// NewDumpCmd prints the attribute tree of one DICOM file
func NewDumpCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "DICOM attribute dump",
		Long:  "parses a DICOM file and prints every attribute, nested sequence items indented",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := dicom.ReadFile(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				fmt.Fprint(out, f)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text|json)")
	return cmd
}
