package model

import "time"

// CorralIn is one corral in an optimize-route request. X and Y are nil when
// absent from the body. Count is carried for the caller's benefit and does
// not affect the route.
type CorralIn struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Count *int     `json:"count,omitempty"`
}

type OptimizeRouteRequest struct {
	Corrals CorralSet `json:"corrals"`
	// Depot names the start corral; empty means the first key of Corrals.
	Depot        string `json:"depot,omitempty"`
	TimeBudgetMs int    `json:"timeBudgetMs,omitempty"`
}

type OptimizeRouteResponse struct {
	Success        bool           `json:"success"`
	OptimizedRoute []string       `json:"optimizedRoute,omitempty"`
	TotalDistance  float64        `json:"totalDistance"`
	CorralsCovered int            `json:"corralsCovered"`
	Method         string         `json:"method,omitempty"`
	Demand         map[string]int `json:"demand,omitempty"`
	RunID          string         `json:"runId,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	Error          string         `json:"error,omitempty"`
}

type Corral struct {
	ID        string    `json:"id" db:"id"`
	X         float64   `json:"x" db:"x"`
	Y         float64   `json:"y" db:"y"`
	Count     int       `json:"count" db:"cart_count"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CorralUpdate sets a corral's current cart count, optionally moving it.
type CorralUpdate struct {
	CorralID string   `json:"corralId" validate:"required,max=64"`
	Count    *int     `json:"count" validate:"required,gte=0,lte=10000"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// Snapshot is one observation of a corral's cart count. DayOfWeek is 0 for
// Monday through 6 for Sunday.
type Snapshot struct {
	CorralID  string    `json:"corralId" db:"corral_id"`
	CartCount int       `json:"cartCount" db:"cart_count"`
	Timestamp time.Time `json:"timestamp" db:"ts"`
	Hour      int       `json:"hour" db:"hour"`
	DayOfWeek int       `json:"dayOfWeek" db:"day_of_week"`
	IsHoliday bool      `json:"isHoliday" db:"is_holiday"`
}

// NewSnapshot derives the hour and Monday-based weekday from ts.
func NewSnapshot(corralID string, count int, ts time.Time) Snapshot {
	return Snapshot{
		CorralID:  corralID,
		CartCount: count,
		Timestamp: ts,
		Hour:      ts.Hour(),
		DayOfWeek: MondayIndex(ts.Weekday()),
	}
}

// MondayIndex maps time.Weekday (Sunday=0) to Monday=0..Sunday=6.
func MondayIndex(d time.Weekday) int { return (int(d) + 6) % 7 }

type Shift struct {
	ID     string `json:"id" db:"id"`
	Worker string `json:"worker" validate:"required,max=128" db:"worker"`
	Shift  string `json:"shift" validate:"required,max=64" db:"shift"`
}

type Prediction struct {
	CorralID      string  `json:"corralId"`
	DayOfWeek     int     `json:"dayOfWeek"`
	Hour          int     `json:"hour"`
	ExpectedCarts float64 `json:"expectedCarts"`
}

// RouteRun records one optimize-route call.
type RouteRun struct {
	ID              string    `json:"id" db:"id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	Depot           string    `json:"depot" db:"depot"`
	Corrals         int       `json:"corrals" db:"corrals"`
	Success         bool      `json:"success" db:"success"`
	Reason          string    `json:"reason,omitempty" db:"reason"`
	InitialDistance float64   `json:"initialDistance" db:"initial_distance"`
	TotalDistance   float64   `json:"totalDistance" db:"total_distance"`
	Iterations      int       `json:"iterations" db:"iterations"`
	Improvements    int       `json:"improvements" db:"improvements"`
	GuidedMoves     int       `json:"guidedMoves" db:"guided_moves"`
	StopReason      string    `json:"stopReason,omitempty" db:"stop_reason"`
	ElapsedMs       int64     `json:"elapsedMs" db:"elapsed_ms"`
}

// Event is pushed to stream subscribers.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

const (
	EventCorralUpdated  = "corral.updated"
	EventRouteOptimized = "route.optimized"
)

// Severity buckets a cart count for display: low under 15, medium under 30.
func Severity(count int) string {
	switch {
	case count >= 30:
		return "high"
	case count >= 15:
		return "medium"
	default:
		return "low"
	}
}
