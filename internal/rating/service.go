package rating

import (
	"context"
	"errors"
	"time"

	"backend-routefeel/internal/db"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

var nowFn = time.Now

// Paint merges one newly painted segment into the trip's rating and
// stores the result. A fresh rating is created on first paint; any
// paint resets the synced flag because the stored rating no longer
// matches what the backend has.
func (s *Service) Paint(ctx context.Context, tripID string, seg RouteSegment) (TripRating, error) {
	current, err := s.Get(ctx, tripID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return TripRating{}, err
		}
		current = TripRating{TripID: tripID}
	}

	current.Segments = MergeSegments(current.Segments, seg)
	current.RatedAt = nowFn()
	current.Synced = false

	blob, err := EncodeSegments(current.Segments)
	if err != nil {
		return TripRating{}, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO trip_ratings (trip_id, segments, rated_at, synced)
		VALUES ($1,$2,$3,false)
		ON CONFLICT (trip_id) DO UPDATE
		SET segments=EXCLUDED.segments, rated_at=EXCLUDED.rated_at, synced=false
	`, tripID, blob, current.RatedAt)
	if err != nil {
		return TripRating{}, err
	}
	return current, nil
}

func (s *Service) Get(ctx context.Context, tripID string) (TripRating, error) {
	row := s.db.QueryRow(ctx, `
		SELECT trip_id, segments, rated_at, synced, COALESCE(remote_id,'')
		FROM trip_ratings WHERE trip_id=$1
	`, tripID)

	var r TripRating
	var blob string
	if err := row.Scan(&r.TripID, &blob, &r.RatedAt, &r.Synced, &r.RemoteID); err != nil {
		return TripRating{}, err
	}
	segments, err := DecodeSegments(blob)
	if err != nil {
		return TripRating{}, err
	}
	r.Segments = segments
	return r, nil
}

func (s *Service) Delete(ctx context.Context, tripID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM trip_ratings WHERE trip_id=$1`, tripID)
	return err
}

// MarkSynced records the identifier the rating backend assigned after a
// successful upload.
func (s *Service) MarkSynced(ctx context.Context, tripID, remoteID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE trip_ratings SET synced=true, remote_id=$2 WHERE trip_id=$1
	`, tripID, remoteID)
	return err
}

// Submission loads the trip's rating and route and builds the upload
// payload. Transport is the caller's concern.
func (s *Service) Submission(ctx context.Context, tripID string) (Submission, error) {
	r, err := s.Get(ctx, tripID)
	if err != nil {
		return Submission{}, err
	}
	route, err := s.routeCoordinates(ctx, tripID)
	if err != nil {
		return Submission{}, err
	}
	return BuildSubmission(r, route), nil
}

func (s *Service) routeCoordinates(ctx context.Context, tripID string) ([]Coordinate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ST_Y(location::geometry), ST_X(location::geometry)
		FROM trip_points WHERE trip_id=$1
		ORDER BY position
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var route []Coordinate
	for rows.Next() {
		var c Coordinate
		if err := rows.Scan(&c.Lat, &c.Lng); err != nil {
			return nil, err
		}
		route = append(route, c)
	}
	return route, nil
}
