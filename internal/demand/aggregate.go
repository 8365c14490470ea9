package demand

import (
	"math"
	"sort"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

// DefaultMinObservations is the smallest group Aggregate keeps.
const DefaultMinObservations = 3

// Aggregate is the summary of all snapshots for one (corral, day, hour) slot.
type Aggregate struct {
	CorralID string
	Features
	Mean  float64
	Std   float64
	Count int
}

type slotKey struct {
	corral    string
	dow, hour int
}

// AggregateSnapshots groups snaps by (corral, dow, hour) and returns mean,
// sample standard deviation and count for every group with at least minObs
// observations, sorted by corral, day and hour.
func AggregateSnapshots(snaps []model.Snapshot, minObs int) []Aggregate {
	if minObs <= 0 {
		minObs = DefaultMinObservations
	}
	groups := map[slotKey][]float64{}
	for _, s := range snaps {
		k := slotKey{s.CorralID, s.DayOfWeek, s.Hour}
		groups[k] = append(groups[k], float64(s.CartCount))
	}
	out := make([]Aggregate, 0, len(groups))
	for k, vals := range groups {
		if len(vals) < minObs {
			continue
		}
		mean, std := meanStd(vals)
		out = append(out, Aggregate{
			CorralID: k.corral,
			Features: FeaturesFor(k.hour, k.dow),
			Mean:     mean,
			Std:      std,
			Count:    len(vals),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CorralID != b.CorralID {
			return a.CorralID < b.CorralID
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.Hour < b.Hour
	})
	return out
}

func meanStd(vals []float64) (float64, float64) {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	if len(vals) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(len(vals)-1))
}
