package cmd

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jpfielding/brachy.go/pkg/extract"
	"github.com/spf13/cobra"
)

type ctSummary struct {
	Slices int       `json:"slices"`
	Dims   [3]int    `json:"dims"`
	X      []float64 `json:"x_cm"`
	Y      []float64 `json:"y_cm"`
	Z      []float64 `json:"z_cm"`
}

type structureSummary struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	External bool   `json:"external,omitempty"`
	Contours int    `json:"contours"`
}

type channelSummary struct {
	Setup     int             `json:"setup"`
	Number    int             `json:"number"`
	Source    int             `json:"source"`
	TotalTime float64         `json:"total_time_s"`
	Dwells    []extract.Dwell `json:"dwells"`
}

type sourceSummary struct {
	Number           int               `json:"number"`
	Isotope          string            `json:"isotope"`
	HalfLife         float64           `json:"half_life_days"`
	AirKermaStrength float64           `json:"air_kerma_strength"`
	Type             string            `json:"type,omitempty"`
	Manufacturer     string            `json:"manufacturer,omitempty"`
	Private          map[string]string `json:"private,omitempty"`
}

type planSummary struct {
	Technique        string           `json:"technique"`
	Type             string           `json:"type"`
	Sources          []sourceSummary  `json:"sources"`
	Channels         []channelSummary `json:"channels"`
	TotalTime        float64          `json:"total_time_s"`
	MaxDwellFraction float64          `json:"max_dwell_fraction"`
	DoseScaling      float64          `json:"dose_scaling"`
}

type extractSummary struct {
	Report     *extract.Report    `json:"report"`
	CT         *ctSummary         `json:"ct,omitempty"`
	Structures []structureSummary `json:"structures,omitempty"`
	Plan       *planSummary       `json:"plan,omitempty"`
	Dose       []string           `json:"dose_files,omitempty"`
	Other      []string           `json:"other_files,omitempty"`
}

func summarize(ds *extract.Dataset, rep *extract.Report) extractSummary {
	s := extractSummary{Report: rep, Dose: ds.DosePaths, Other: ds.OtherPaths}
	if ds.CT != nil {
		nx, ny, nz := ds.CT.Dims()
		x, y, z := ds.CT.Boundaries()
		s.CT = &ctSummary{Slices: nz, Dims: [3]int{nx, ny, nz}, X: x, Y: y, Z: z}
	}
	if ds.Structures != nil {
		for _, st := range ds.Structures.Structures {
			s.Structures = append(s.Structures, structureSummary{
				Number:   st.Number,
				Name:     st.Name,
				Type:     st.Type,
				External: st.External,
				Contours: len(st.Contours),
			})
		}
	}
	if p := ds.Plan; p != nil {
		ps := &planSummary{
			Technique:        p.Technique,
			Type:             p.Type,
			TotalTime:        p.TotalTime,
			MaxDwellFraction: p.MaxDwellFraction,
			DoseScaling:      p.DoseScaling,
		}
		for _, src := range p.Sources {
			ss := sourceSummary{
				Number:           src.Number,
				Isotope:          src.Isotope,
				HalfLife:         src.HalfLife,
				AirKermaStrength: src.AirKermaStrength,
				Type:             src.Type,
				Manufacturer:     src.Manufacturer,
			}
			for t, v := range src.Private {
				if ss.Private == nil {
					ss.Private = map[string]string{}
				}
				ss.Private[t.String()] = v
			}
			ps.Sources = append(ps.Sources, ss)
		}
		for _, ch := range p.Channels {
			ps.Channels = append(ps.Channels, channelSummary{
				Setup:     ch.Setup,
				Number:    ch.Number,
				Source:    ch.SourceNumber,
				TotalTime: ch.TotalTime,
				Dwells:    ch.Dwells,
			})
		}
		s.Plan = ps
	}
	return s
}

// NewExtractCmd reports the clinical model built from a batch of DICOM files
func NewExtractCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <files...>",
		Short: "CT, structure and plan extraction",
		Long:  "parses every file, then prints the CT geometry, structures and dwell schedule as json",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, rep, err := extract.Extract(ctx, args,
				extract.WithLogger(slog.Default()),
				extract.WithProgress(func(p extract.Progress) {
					slog.DebugContext(ctx, "extract", "done", p.Done, "total", p.Total, "path", p.Path, "error", p.Err)
				}),
			)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summarize(ds, rep))
		},
	}
	return cmd
}
