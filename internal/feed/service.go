package feed

import (
	"context"
	"database/sql"
	"sort"

	"backend-routefeel/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreatePost(ctx context.Context, input Post) (Post, error) {
	input.ID = uuid.NewString()
	if input.Visibility == "" {
		input.Visibility = "public"
	}
	// Posts without coordinates store a NULL location so they never
	// match a nearby query. ST_MakePoint(NULL, NULL) is NULL.
	var lng, lat any
	if input.Lat != 0 || input.Lng != 0 {
		lng, lat = input.Lng, input.Lat
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, trip_id, content, location, visibility)
		VALUES ($1,$2,$3,$4, ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography, $7)
		RETURNING created_at
	`, input.ID, input.UserID, strPtr(input.TripID), input.Content, lng, lat, input.Visibility)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Post{}, err
	}
	return input, nil
}

func (s *Service) AddPhoto(ctx context.Context, postID, url string) (PostPhoto, error) {
	photo := PostPhoto{
		ID:     uuid.NewString(),
		PostID: postID,
		URL:    url,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO post_photos (id, post_id, photo_url)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, photo.ID, photo.PostID, photo.URL)
	if err := row.Scan(&photo.CreatedAt); err != nil {
		return PostPhoto{}, err
	}
	return photo, nil
}

// Like is idempotent: liking an already liked post is a no-op.
func (s *Service) Like(ctx context.Context, postID, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, postID, userID)
	return err
}

func (s *Service) Unlike(ctx context.Context, postID, userID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2
	`, postID, userID)
	return err
}

func (s *Service) AddComment(ctx context.Context, postID, userID, content string) (Comment, error) {
	comment := Comment{
		ID:      uuid.NewString(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO post_comments (id, post_id, user_id, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, comment.ID, comment.PostID, comment.UserID, comment.Content)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		return Comment{}, err
	}
	return comment, nil
}

func (s *Service) Comments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, user_id, content, created_at
		FROM post_comments WHERE post_id=$1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func (s *Service) Follow(ctx context.Context, followerID, followingID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_follows (follower_id, following_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, followerID, followingID)
	return err
}

const postColumns = `
		SELECT p.id, p.user_id, COALESCE(p.trip_id,''), p.content,
		       ST_Y(p.location::geometry), ST_X(p.location::geometry), p.visibility,
		       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id=p.id),
		       (SELECT COUNT(*) FROM post_comments c WHERE c.post_id=p.id),
		       p.created_at
		FROM posts p`

func (s *Service) Feed(ctx context.Context, userID string) ([]Post, error) {
	rows, err := s.db.Query(ctx, postColumns+`
		WHERE p.user_id=$1
		   OR p.user_id IN (SELECT following_id FROM user_follows WHERE follower_id=$1)
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectPosts(ctx, rows)
}

func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Post, error) {
	rows, err := s.db.Query(ctx, postColumns+`
		WHERE ST_DWithin(p.location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY p.created_at DESC
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := s.collectPosts(ctx, rows)
	if err != nil {
		return nil, err
	}
	return sortPosts(posts), nil
}

func (s *Service) collectPosts(ctx context.Context, rows pgx.Rows) ([]Post, error) {
	var posts []Post
	var ids []string
	for rows.Next() {
		var p Post
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.UserID, &p.TripID, &p.Content, &lat, &lng, &p.Visibility,
			&p.LikeCount, &p.CommentCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		if lat.Valid {
			p.Lat = lat.Float64
		}
		if lng.Valid {
			p.Lng = lng.Float64
		}
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}

	photos, err := s.loadPhotos(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Photos = photos[posts[i].ID]
	}
	return posts, nil
}

func (s *Service) loadPhotos(ctx context.Context, postIDs []string) (map[string][]PostPhoto, error) {
	if len(postIDs) == 0 {
		return map[string][]PostPhoto{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, photo_url, created_at
		FROM post_photos WHERE post_id = ANY($1)
		ORDER BY created_at
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	photos := map[string][]PostPhoto{}
	for rows.Next() {
		var p PostPhoto
		if err := rows.Scan(&p.ID, &p.PostID, &p.URL, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos[p.PostID] = append(photos[p.PostID], p)
	}
	return photos, nil
}

func sortPosts(posts []Post) []Post {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
