// Package demand forecasts cart counts per corral from historical snapshots.
package demand

import "math"

// Features are the calendar encodings derived for an (hour, day) slot.
// DayOfWeek is Monday-based.
type Features struct {
	Hour      int     `json:"hour" yaml:"hour"`
	DayOfWeek int     `json:"dayOfWeek" yaml:"dayOfWeek"`
	IsWeekend bool    `json:"isWeekend" yaml:"isWeekend"`
	HourSin   float64 `json:"hourSin" yaml:"hourSin"`
	HourCos   float64 `json:"hourCos" yaml:"hourCos"`
	DowSin    float64 `json:"dowSin" yaml:"dowSin"`
	DowCos    float64 `json:"dowCos" yaml:"dowCos"`
}

func FeaturesFor(hour, dow int) Features {
	h := 2 * math.Pi * float64(hour) / 24
	d := 2 * math.Pi * float64(dow) / 7
	return Features{
		Hour:      hour,
		DayOfWeek: dow,
		IsWeekend: IsWeekend(dow),
		HourSin:   math.Sin(h),
		HourCos:   math.Cos(h),
		DowSin:    math.Sin(d),
		DowCos:    math.Cos(d),
	}
}

// IsWeekend reports Saturday (5) and Sunday (6).
func IsWeekend(dow int) bool { return dow >= 5 }
