package observe

import "sort"

// ByBand groups records by band, preserving order within each band.
func ByBand(records []Record) map[string][]Record {
	out := make(map[string][]Record)
	for _, r := range records {
		out[r.Band] = append(out[r.Band], r)
	}
	return out
}

// Bands returns the distinct bands in sorted order.
func Bands(records []Record) []string {
	groups := ByBand(records)
	out := make([]string, 0, len(groups))
	for b := range groups {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Event returns the records belonging to one event.
func Event(records []Record, event int) []Record {
	var out []Record
	for _, r := range records {
		if r.Event == event {
			out = append(out, r)
		}
	}
	return out
}
