package dvh

import "sort"

// DoseSearch returns the highest index whose dose is at least d, or -1
func (h *Histogram) DoseSearch(d float64) int {
	return sort.Search(len(h.Points), func(i int) bool { return h.Points[i].Dose < d }) - 1
}

// VolSearch returns the lowest index whose cumulative volume is at least v,
// or len(Points) when v exceeds the total
func (h *Histogram) VolSearch(v float64) int {
	return sort.Search(len(h.Points), func(i int) bool { return h.Points[i].Volume >= v })
}

// Vx returns the percentage of volume receiving at least dose
func (h *Histogram) Vx(dose float64) float64 {
	i := h.DoseSearch(dose)
	if i < 0 || h.TotalVolume <= 0 {
		return 0
	}
	return 100 * h.Points[i].Volume / h.TotalVolume
}

// Dx returns the minimum dose received by the hottest percent of the volume
func (h *Histogram) Dx(percent float64) float64 {
	if len(h.Points) == 0 {
		return 0
	}
	i := h.VolSearch(percent / 100 * h.TotalVolume)
	if i >= len(h.Points) {
		i = len(h.Points) - 1
	}
	return h.Points[i].Dose
}
