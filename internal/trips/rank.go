package trips

import (
	"cmp"
	"slices"
	"strings"

	"github.com/j-veylop/tripstat/internal/models"
)

// TopZones returns the k busiest zones, ordered by count descending and
// then by zone name. It returns nil when k <= 0.
func (a *Analyzer) TopZones(k int) []models.ZoneCount {
	if k <= 0 {
		return nil
	}

	out := make([]models.ZoneCount, 0, len(a.zones))
	for zone, n := range a.zones {
		out = append(out, models.ZoneCount{Zone: zone, Count: n})
	}
	slices.SortFunc(out, compareZones)

	return truncate(out, k)
}

// TopBusySlots returns the k busiest (zone, hour) slots, ordered by count
// descending, then zone, then hour. It returns nil when k <= 0.
func (a *Analyzer) TopBusySlots(k int) []models.SlotCount {
	if k <= 0 {
		return nil
	}

	var out []models.SlotCount
	for zone, profile := range a.slots {
		for h, n := range profile {
			// Untouched hours are never reported.
			if n == 0 {
				continue
			}
			out = append(out, models.SlotCount{Zone: zone, Hour: h, Count: n})
		}
	}
	slices.SortFunc(out, compareSlots)

	return truncate(out, k)
}

func compareZones(x, y models.ZoneCount) int {
	if c := cmp.Compare(y.Count, x.Count); c != 0 {
		return c
	}
	return strings.Compare(x.Zone, y.Zone)
}

func compareSlots(x, y models.SlotCount) int {
	if c := cmp.Compare(y.Count, x.Count); c != 0 {
		return c
	}
	if c := strings.Compare(x.Zone, y.Zone); c != 0 {
		return c
	}
	return cmp.Compare(x.Hour, y.Hour)
}

func truncate[T any](s []T, k int) []T {
	if len(s) > k {
		return s[:k:k]
	}
	return s
}
