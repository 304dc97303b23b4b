package rating

import "time"

// Feeling is the subjective comfort label a rider paints onto a stretch
// of route.
type Feeling string

const (
	FeelingStressed      Feeling = "stressed"
	FeelingUncomfortable Feeling = "uncomfortable"
	FeelingComfortable   Feeling = "comfortable"
	FeelingEnjoyable     Feeling = "enjoyable"
)

func (f Feeling) Valid() bool {
	switch f {
	case FeelingStressed, FeelingUncomfortable, FeelingComfortable, FeelingEnjoyable:
		return true
	}
	return false
}

// apiLabels maps feelings to the capitalized form the rating backend expects.
var apiLabels = map[Feeling]string{
	FeelingStressed:      "Stressed",
	FeelingUncomfortable: "Uncomfortable",
	FeelingComfortable:   "Comfortable",
	FeelingEnjoyable:     "Enjoyable",
}

// Label returns the capitalized submission label for f.
func (f Feeling) Label() string {
	return apiLabels[f]
}

// RouteSegment is a contiguous inclusive index range over a trip's
// ordered route points, tagged with one feeling. Within a segment list
// ranges are pairwise non-overlapping and sorted by StartIndex.
type RouteSegment struct {
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Feeling    Feeling `json:"feeling"`
}

// TripRating is the complete set of segments painted onto one trip.
// It is owned by the trip and deleted with it.
type TripRating struct {
	TripID   string         `json:"trip_id"`
	Segments []RouteSegment `json:"segments"`
	RatedAt  time.Time      `json:"rated_at"`
	Synced   bool           `json:"synced"`
	RemoteID string         `json:"remote_id,omitempty"`
}

// Coordinate is a geographic point used by the submission payload.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SubmissionSegment is one segment expanded to its endpoint coordinates
// for upload. Index positions are not recoverable from this shape; the
// locally stored segment list stays the source of truth for re-editing.
type SubmissionSegment struct {
	Start   Coordinate `json:"start"`
	End     Coordinate `json:"end"`
	Feeling string     `json:"feeling"`
}

// Submission is the payload handed to the upload client.
type Submission struct {
	TripID   string              `json:"trip_id"`
	RemoteID string              `json:"remote_id,omitempty"`
	RatedAt  time.Time           `json:"rated_at"`
	Segments []SubmissionSegment `json:"segments"`
}
