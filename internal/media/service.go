package media

import (
	"context"
	"strings"
	"time"

	"backend-routefeel/internal/db"

	"github.com/google/uuid"
)

// Upload URLs are short-lived; clients must PUT the file before the
// returned expires_at.
const uploadTTL = 15 * time.Minute

type Object struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	return &Service{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Service) ObjectURL(fileName string) string {
	if fileName == "" {
		fileName = "upload"
	}
	return s.baseURL + "/" + fileName
}

func (s *Service) SaveObject(ctx context.Context, userID, url, kind string) (string, error) {
	if kind == "" {
		kind = "photo"
	}
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO media_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) ForUser(ctx context.Context, userID string) ([]Object, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, url, kind, created_at
		FROM media_objects WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []Object
	for rows.Next() {
		var o Object
		if err := rows.Scan(&o.ID, &o.UserID, &o.URL, &o.Kind, &o.CreatedAt); err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, nil
}
