package rating

import "encoding/json"

// EncodeSegments serializes a segment list to the string blob stored in
// the trip_ratings.segments column.
func EncodeSegments(segments []RouteSegment) (string, error) {
	if segments == nil {
		segments = []RouteSegment{}
	}
	raw, err := json.Marshal(segments)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeSegments parses the stored blob back into a segment list.
func DecodeSegments(blob string) ([]RouteSegment, error) {
	if blob == "" {
		return []RouteSegment{}, nil
	}
	var segments []RouteSegment
	if err := json.Unmarshal([]byte(blob), &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// BuildSubmission expands a rating into the upload payload: each
// segment becomes its endpoint coordinates looked up in the trip's
// route, plus the capitalized feeling label. Indices outside the route
// degrade to a zero coordinate instead of failing the build.
func BuildSubmission(r TripRating, route []Coordinate) Submission {
	segments := make([]SubmissionSegment, 0, len(r.Segments))
	for _, seg := range r.Segments {
		segments = append(segments, SubmissionSegment{
			Start:   coordinateAt(route, seg.StartIndex),
			End:     coordinateAt(route, seg.EndIndex),
			Feeling: seg.Feeling.Label(),
		})
	}
	return Submission{
		TripID:   r.TripID,
		RemoteID: r.RemoteID,
		RatedAt:  r.RatedAt,
		Segments: segments,
	}
}

func coordinateAt(route []Coordinate, i int) Coordinate {
	if i < 0 || i >= len(route) {
		return Coordinate{}
	}
	return route[i]
}
