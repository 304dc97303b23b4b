package rating

import "sort"

// maxBridgeGap is the largest distance between the end of one segment
// and the start of the next that still counts as continuous when both
// carry the same feeling. Small dead zones (GPS sample gaps) get
// absorbed instead of fragmenting a stretch into tiny segments.
const maxBridgeGap = 4

// MergeSegments overwrites the painted range of next onto existing and
// returns a fresh sorted, non-overlapping segment list. Segments fully
// outside the new range are kept, overlapping ones are clipped to the
// parts that stick out on either side, and same-feeling neighbors
// within maxBridgeGap of each other are coalesced.
//
// next may arrive with its indices reversed. existing must already be
// sorted and non-overlapping; that is not validated here.
func MergeSegments(existing []RouteSegment, next RouteSegment) []RouteSegment {
	start, end := next.StartIndex, next.EndIndex
	if start > end {
		start, end = end, start
	}

	out := make([]RouteSegment, 0, len(existing)+1)
	for _, seg := range existing {
		if seg.EndIndex < start || seg.StartIndex > end {
			out = append(out, seg)
			continue
		}
		if seg.StartIndex < start {
			out = append(out, RouteSegment{StartIndex: seg.StartIndex, EndIndex: start - 1, Feeling: seg.Feeling})
		}
		if seg.EndIndex > end {
			out = append(out, RouteSegment{StartIndex: end + 1, EndIndex: seg.EndIndex, Feeling: seg.Feeling})
		}
	}
	out = append(out, RouteSegment{StartIndex: start, EndIndex: end, Feeling: next.Feeling})

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartIndex < out[j].StartIndex
	})
	return coalesce(out)
}

func coalesce(segments []RouteSegment) []RouteSegment {
	if len(segments) == 0 {
		return segments
	}

	merged := segments[:1]
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		gap := seg.StartIndex - last.EndIndex
		if seg.Feeling == last.Feeling && gap >= 1 && gap <= maxBridgeGap {
			if seg.EndIndex > last.EndIndex {
				last.EndIndex = seg.EndIndex
			}
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
