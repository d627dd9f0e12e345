// Package models defines data structures and domain types.
package models

import "fmt"

// HoursPerDay is the number of hour-of-day buckets.
const HoursPerDay = 24

// ZoneCount is one row of the busiest-zones ranking.
type ZoneCount struct {
	Zone  string
	Count int64
}

// SlotCount is one row of the busiest-slots ranking.
type SlotCount struct {
	Zone  string
	Hour  int
	Count int64
}

// HourLabel formats the slot hour as "HH:00".
func (s SlotCount) HourLabel() string {
	return fmt.Sprintf("%02d:00", s.Hour)
}

// HourlyProfile holds trip counts for each hour of the day.
type HourlyProfile [HoursPerDay]int64

// Total returns the sum over all hours.
func (p HourlyProfile) Total() int64 {
	var total int64
	for _, n := range p {
		total += n
	}
	return total
}

// Peak returns the busiest hour and its count. Ties go to the earlier hour.
func (p HourlyProfile) Peak() (hour int, count int64) {
	for h, n := range p {
		if n > count {
			hour, count = h, n
		}
	}
	return hour, count
}

// Floats converts the profile for charting.
func (p HourlyProfile) Floats() []float64 {
	out := make([]float64, HoursPerDay)
	for h, n := range p {
		out[h] = float64(n)
	}
	return out
}
