package dvh

import "fmt"

// Options selects the metrics reported per structure. Vx levels are percent
// of the prescription dose, Dx levels percent of structure volume.
type Options struct {
	Prescription float64
	Dx           []float64
	Vx           []float64
}

// Metric is one named value such as D90 or V100
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Summary is the report row for one structure
type Summary struct {
	Name        string   `json:"name"`
	Voxels      int      `json:"voxels"`
	Volume      float64  `json:"volume_cm3"`
	MeanDose    float64  `json:"mean_dose"`
	MeanError   float64  `json:"mean_error"`
	MinDose     float64  `json:"min_dose"`
	MaxDose     float64  `json:"max_dose"`
	MaxError    float64  `json:"max_error"`
	D           []Metric `json:"d,omitempty"`
	V           []Metric `json:"v,omitempty"`
	Homogeneity float64  `json:"homogeneity_index,omitempty"`
	Conformity  float64  `json:"conformity_index,omitempty"`
}

// HomogeneityIndex is 1 - V150/V100 for the given prescription, 0 when
// nothing receives the prescription
func (h *Histogram) HomogeneityIndex(prescription float64) float64 {
	v100 := h.Vx(prescription)
	if v100 == 0 {
		return 0
	}
	return 1 - h.Vx(1.5*prescription)/v100
}

// ConformityIndex compares target coverage with body dose outside it:
// V100s / ((1 - V100s) + V100body), with both V100 as fractions
func ConformityIndex(target, body *Histogram, prescription float64) float64 {
	vs := target.Vx(prescription) / 100
	vb := body.Vx(prescription) / 100
	den := (1 - vs) + vb
	if den == 0 {
		return 0
	}
	return vs / den
}

// Summarize reports h under name. body may be nil; when set and distinct from
// h, the conformity index is included.
func Summarize(name string, h, body *Histogram, opts Options) Summary {
	s := Summary{
		Name:      name,
		Voxels:    h.Voxels,
		Volume:    h.TotalVolume,
		MeanDose:  h.MeanDose,
		MeanError: h.MeanError,
		MinDose:   h.MinDose,
		MaxDose:   h.MaxDose,
		MaxError:  h.MaxError,
	}
	for _, x := range opts.Dx {
		s.D = append(s.D, Metric{Name: fmt.Sprintf("D%g", x), Value: h.Dx(x)})
	}
	if opts.Prescription <= 0 {
		return s
	}
	for _, x := range opts.Vx {
		s.V = append(s.V, Metric{Name: fmt.Sprintf("V%g", x), Value: h.Vx(x / 100 * opts.Prescription)})
	}
	s.Homogeneity = h.HomogeneityIndex(opts.Prescription)
	if body != nil && body != h {
		s.Conformity = ConformityIndex(h, body, opts.Prescription)
	}
	return s
}
