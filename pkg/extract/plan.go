package extract

import (
	"fmt"
	"math"

	"github.com/jpfielding/brachy.go/pkg/dicom"
	"github.com/jpfielding/brachy.go/pkg/dicom/tag"
)

// Treatment technique and type values used by the dose scaling rules
const (
	TechniquePermanent = "PERMANENT"
	TypeLDR            = "LDR"
	TypeHDR            = "HDR"
	TypeManual         = "MANUAL"
)

// controlPoint is one entry of a channel's brachy control point sequence
type controlPoint struct {
	Position [3]float64
	Weight   float64
}

func buildPlan(f *dicom.File) (*Plan, []string) {
	var notes []string
	p := &Plan{
		Path:      f.Path,
		Technique: text(f, tag.BrachyTreatmentTechnique),
		Type:      text(f, tag.BrachyTreatmentType),
	}

	for _, it := range items(f, tag.SourceSequence) {
		p.Sources = append(p.Sources, readSource(it))
	}

	for _, setup := range items(f, tag.ApplicationSetupSequence) {
		setupNumber := integerOr(setup, tag.ApplicationSetupNumber, 0)
		for _, ch := range items(setup, tag.ChannelSequence) {
			c := &Channel{
				Setup:        setupNumber,
				Number:       integerOr(ch, tag.ChannelNumber, 0),
				SourceNumber: integerOr(ch, tag.ReferencedSourceNumber, 0),
				TotalTime:    floatOr(ch, tag.ChannelTotalTime, 0),
			}
			var cps []controlPoint
			for _, cp := range items(ch, tag.BrachyControlPointSequence) {
				var pt controlPoint
				copy(pt.Position[:], floats(cp, tag.ControlPoint3DPosition))
				pt.Weight = floatOr(cp, tag.CumulativeTimeWeight, 0)
				cps = append(cps, pt)
			}
			c.FinalWeight = floatOr(ch, tag.FinalCumulativeTimeWeight, 0)
			if c.FinalWeight == 0 && len(cps) > 0 {
				c.FinalWeight = cps[len(cps)-1].Weight
			}
			var err error
			if c.Dwells, err = dwellTimes(c.TotalTime, c.FinalWeight, cps); err != nil {
				notes = append(notes, fmt.Sprintf("channel %d: %v", c.Number, err))
			}
			p.Channels = append(p.Channels, c)
		}
	}

	var longest float64
	for _, c := range p.Channels {
		for _, d := range c.Dwells {
			p.TotalTime += d.Time
			longest = max(longest, d.Time)
		}
	}
	if p.TotalTime > 0 {
		p.MaxDwellFraction = longest / p.TotalTime
	}

	if len(p.Sources) == 0 {
		notes = append(notes, "plan has no sources, dose scaling not computed")
		return p, notes
	}
	src := p.Sources[0]
	scaling, fallback := DoseScalingFactor(p.Technique, p.Type, src.AirKermaStrength, src.HalfLife, p.TotalTime)
	if fallback {
		notes = append(notes, fmt.Sprintf("no dose scaling rule for technique %q type %q, using permanent implant formula", p.Technique, p.Type))
	}
	if src.HalfLife <= 0 && p.Type != TypeHDR {
		notes = append(notes, "source half-life missing, dose scaling is zero")
	}
	p.DoseScaling = scaling
	return p, notes
}

func readSource(it *dicom.SequenceItem) Source {
	s := Source{
		Number:           integerOr(it, tag.SourceNumber, 0),
		Isotope:          text(it, tag.SourceIsotopeName),
		HalfLife:         floatOr(it, tag.SourceIsotopeHalfLife, 0),
		AirKermaStrength: floatOr(it, tag.ReferenceAirKermaRate, 0),
		Type:             text(it, tag.SourceType),
		Manufacturer:     text(it, tag.SourceManufacturer),
	}
	for _, a := range it.Attributes {
		if a.Tag.IsPrivate() {
			if s.Private == nil {
				s.Private = map[tag.Tag]string{}
			}
			s.Private[a.Tag] = a.Text()
		}
	}
	return s
}

// positionTolerance is the largest coordinate difference, in mm, between two
// control points still treated as the same dwell position
const positionTolerance = 1e-3

// dwellTimes turns cumulative weights into dwells. A rise in weight between two
// consecutive control points at the same position is a stop lasting
// totalTime*dw/finalWeight seconds; weight gained while the source moves is
// not booked to any position.
func dwellTimes(totalTime, finalWeight float64, cps []controlPoint) ([]Dwell, error) {
	if len(cps) < 2 {
		return nil, nil
	}
	if finalWeight <= 0 {
		return nil, fmt.Errorf("final cumulative time weight is %v", finalWeight)
	}
	var out []Dwell
	for i := 1; i < len(cps); i++ {
		dw := cps[i].Weight - cps[i-1].Weight
		if dw <= 0 || !samePosition(cps[i].Position, cps[i-1].Position) {
			continue
		}
		out = append(out, Dwell{
			Position: cps[i].Position,
			Time:     totalTime * dw / finalWeight,
		})
	}
	return out, nil
}

func samePosition(a, b [3]float64) bool {
	for k := range a {
		if math.Abs(a[k]-b[k]) > positionTolerance {
			return false
		}
	}
	return true
}

// MeanLife returns the mean lifetime in hours for a half-life in days
func MeanLife(halfLifeDays float64) float64 {
	return halfLifeDays * 24 / math.Ln2
}

// DoseScalingFactor converts air kerma strength sk into the per-history dose
// scaling for the plan. totalTime is in seconds. fallback reports an unknown
// technique/type pair, which uses the permanent implant formula.
func DoseScalingFactor(technique, treatmentType string, sk, halfLifeDays, totalTime float64) (factor float64, fallback bool) {
	tau := MeanLife(halfLifeDays)
	switch {
	case technique == TechniquePermanent && (treatmentType == TypeLDR || treatmentType == TypeManual):
		return sk * tau, false
	case treatmentType == TypeLDR:
		if tau <= 0 {
			return 0, false
		}
		hours := totalTime / 3600
		return sk * tau * (1 - math.Exp(-hours/tau)), false
	case treatmentType == TypeHDR:
		return sk * totalTime / 3600, false
	}
	return sk * tau, true
}
