package trip

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"backend-routefeel/internal/db"
	"backend-routefeel/internal/leaderboard"
	"backend-routefeel/internal/shared/geo"
	"backend-routefeel/internal/stream"

	"github.com/google/uuid"
)

type Service struct {
	db    db.Querier
	hub   *stream.Hub
	board *leaderboard.Board
}

func NewService(db db.Querier, hub *stream.Hub, board *leaderboard.Board) *Service {
	return &Service{db: db, hub: hub, board: board}
}

func (s *Service) Start(ctx context.Context, input Trip) (Trip, error) {
	input.ID = uuid.NewString()
	if input.StartedAt.IsZero() {
		input.StartedAt = time.Now()
	}
	input.Status = StatusRecording

	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, user_id, mode, title, started_at, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.UserID, input.Mode, input.Title, input.StartedAt, input.Status)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Trip{}, err
	}
	return input, nil
}

// AddPoint appends the next route sample, accrues haversine distance
// from the previous sample and pushes the point to live followers.
func (s *Service) AddPoint(ctx context.Context, tripID string, input RoutePoint) (RoutePoint, error) {
	if input.RecordedAt.IsZero() {
		input.RecordedAt = time.Now()
	}

	lastPos := -1
	var lastLat, lastLng float64
	_ = s.db.QueryRow(ctx, `
		SELECT position, ST_Y(location::geometry), ST_X(location::geometry)
		FROM trip_points
		WHERE trip_id=$1
		ORDER BY position DESC
		LIMIT 1
	`, tripID).Scan(&lastPos, &lastLat, &lastLng)

	input.TripID = tripID
	input.Position = lastPos + 1

	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_points (trip_id, position, location, elevation_m, recorded_at)
		VALUES ($1,$2, ST_SetSRID(ST_MakePoint($3,$4), 4326)::geography, $5, $6)
	`, tripID, input.Position, input.Lng, input.Lat, input.ElevationM, input.RecordedAt)
	if err != nil {
		return RoutePoint{}, err
	}

	if lastPos >= 0 {
		deltaM := geo.HaversineKm(lastLat, lastLng, input.Lat, input.Lng) * 1000
		_, _ = s.db.Exec(ctx, `
			UPDATE trips
			SET total_distance_m = COALESCE(total_distance_m,0) + $2
			WHERE id=$1
		`, tripID, deltaM)
	}

	if s.hub != nil {
		payload, _ := json.Marshal(input)
		s.hub.Broadcast(tripID, payload)
	}

	return input, nil
}

// Finish stamps the end time, derives duration and average speed, and
// credits the distance to the user's leaderboards.
func (s *Service) Finish(ctx context.Context, tripID string) (Trip, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return Trip{}, err
	}

	trip.EndedAt = time.Now()
	trip.Status = StatusFinished
	trip.DurationSec = int64(trip.EndedAt.Sub(trip.StartedAt).Seconds())
	if trip.DurationSec > 0 {
		trip.AvgSpeedMps = trip.TotalDistanceM / float64(trip.DurationSec)
	}

	_, err = s.db.Exec(ctx, `
		UPDATE trips
		SET ended_at=$2, status=$3, duration_sec=$4, avg_speed_mps=$5
		WHERE id=$1
	`, trip.ID, trip.EndedAt, trip.Status, trip.DurationSec, trip.AvgSpeedMps)
	if err != nil {
		return Trip{}, err
	}

	if s.board != nil {
		clubIDs, err := s.clubIDs(ctx, trip.UserID)
		if err != nil {
			log.Printf("club lookup for leaderboard failed: %v", err)
			clubIDs = nil
		}
		if err := s.board.Credit(ctx, trip.UserID, clubIDs, trip.TotalDistanceM); err != nil {
			log.Printf("leaderboard credit failed: %v", err)
		}
	}

	return trip, nil
}

func (s *Service) Get(ctx context.Context, id string) (Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, mode, title, started_at, ended_at, status,
		       COALESCE(total_distance_m,0), COALESCE(duration_sec,0), COALESCE(avg_speed_mps,0), created_at
		FROM trips WHERE id=$1
	`, id)

	var trip Trip
	var endedAt *time.Time
	if err := row.Scan(&trip.ID, &trip.UserID, &trip.Mode, &trip.Title, &trip.StartedAt, &endedAt, &trip.Status,
		&trip.TotalDistanceM, &trip.DurationSec, &trip.AvgSpeedMps, &trip.CreatedAt); err != nil {
		return Trip{}, err
	}
	if endedAt != nil {
		trip.EndedAt = *endedAt
	}
	return trip, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, mode, title, started_at, ended_at, status,
		       COALESCE(total_distance_m,0), COALESCE(duration_sec,0), COALESCE(avg_speed_mps,0), created_at
		FROM trips WHERE user_id=$1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var trip Trip
		var endedAt *time.Time
		if err := rows.Scan(&trip.ID, &trip.UserID, &trip.Mode, &trip.Title, &trip.StartedAt, &endedAt, &trip.Status,
			&trip.TotalDistanceM, &trip.DurationSec, &trip.AvgSpeedMps, &trip.CreatedAt); err != nil {
			return nil, err
		}
		if endedAt != nil {
			trip.EndedAt = *endedAt
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func (s *Service) Points(ctx context.Context, tripID string) ([]RoutePoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trip_id, position, ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(elevation_m,0), recorded_at
		FROM trip_points WHERE trip_id=$1
		ORDER BY position
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []RoutePoint
	for rows.Next() {
		var p RoutePoint
		if err := rows.Scan(&p.TripID, &p.Position, &p.Lat, &p.Lng, &p.ElevationM, &p.RecordedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Delete removes the trip, its points and its rating. The rating is
// owned by the trip, so the delete cascades even on schemas without
// the foreign key constraint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM trip_ratings WHERE trip_id=$1`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM trip_points WHERE trip_id=$1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id=$1`, id)
	return err
}

func (s *Service) clubIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT club_id FROM club_members WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
