package trip

import "time"

const (
	ModeWalk  = "walk"
	ModeCycle = "cycle"
)

const (
	StatusRecording = "recording"
	StatusFinished  = "finished"
)

// Trip is one recorded walking or cycling activity. Its route is the
// ordered list of RoutePoints; segment ratings index into that order.
type Trip struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Mode           string    `json:"mode"`
	Title          string    `json:"title"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at,omitempty"`
	Status         string    `json:"status"`
	TotalDistanceM float64   `json:"total_distance_m"`
	DurationSec    int64     `json:"duration_sec"`
	AvgSpeedMps    float64   `json:"avg_speed_mps"`
	CreatedAt      time.Time `json:"created_at"`
}

// RoutePoint is one coordinate sample of a trip's route. Position is
// the zero-based index ratings refer to.
type RoutePoint struct {
	TripID     string    `json:"trip_id"`
	Position   int       `json:"position"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ElevationM float64   `json:"elevation_m"`
	RecordedAt time.Time `json:"recorded_at"`
}

func validMode(mode string) bool {
	return mode == ModeWalk || mode == ModeCycle
}
