package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query failed")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func postRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "trip_id", "content", "lat", "lng", "visibility",
		"like_count", "comment_count", "created_at",
	})
}

func TestCreatePostWithTrip(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), "Great ride along the canal", 4.90, 52.37, "public").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	post, err := svc.CreatePost(context.Background(), Post{
		UserID:  "user-1",
		TripID:  "trip-1",
		Content: "Great ride along the canal",
		Lat:     52.37,
		Lng:     4.90,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.ID == "" || post.Visibility != "public" {
		t.Fatalf("unexpected post: %+v", post)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePostWithoutLocation(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), "No GPS today", nil, nil, "public").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	if _, err := svc.CreatePost(context.Background(), Post{
		UserID:  "user-1",
		Content: "No GPS today",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	mock.ExpectQuery(`SELECT p.id, p.user_id, COALESCE\(p.trip_id,''\)`).
		WithArgs("user-1").
		WillReturnRows(postRows().
			AddRow("post-1", "user-1", "", "No GPS today", nil, nil, "public", 0, 0, time.Now()))
	mock.ExpectQuery(`SELECT id, post_id, photo_url, created_at`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "photo_url", "created_at"}))

	posts, err := svc.Feed(context.Background(), "user-1")
	if err != nil || len(posts) != 1 {
		t.Fatalf("feed: %v", err)
	}
	if posts[0].Lat != 0 || posts[0].Lng != 0 {
		t.Fatalf("expected zero coordinates for locationless post: %+v", posts[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLikeUnlikeComment(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectExec(`INSERT INTO post_likes`).
		WithArgs("post-1", "user-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := svc.Like(context.Background(), "post-1", "user-1"); err != nil {
		t.Fatalf("like: %v", err)
	}

	mock.ExpectExec(`DELETE FROM post_likes`).
		WithArgs("post-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.Unlike(context.Background(), "post-1", "user-1"); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	mock.ExpectQuery(`INSERT INTO post_comments`).
		WithArgs(pgxmock.AnyArg(), "post-1", "user-2", "Nice route!").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	comment, err := svc.AddComment(context.Background(), "post-1", "user-2", "Nice route!")
	if err != nil || comment.ID == "" {
		t.Fatalf("add comment: %v", err)
	}

	mock.ExpectQuery(`SELECT id, post_id, user_id, content, created_at`).
		WithArgs("post-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(comment.ID, "post-1", "user-2", "Nice route!", time.Now()))
	comments, err := svc.Comments(context.Background(), "post-1")
	if err != nil || len(comments) != 1 {
		t.Fatalf("comments: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFeedAttachesPhotosAndCounts(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT p.id, p.user_id, COALESCE\(p.trip_id,''\)`).
		WithArgs("user-1").
		WillReturnRows(postRows().
			AddRow("post-2", "user-2", "trip-9", "Evening loop", 52.38, 4.91, "public", 3, 1, time.Now()).
			AddRow("post-1", "user-1", "", "First walk", 52.37, 4.90, "public", 0, 0, time.Now().Add(-time.Hour)))

	mock.ExpectQuery(`SELECT id, post_id, photo_url, created_at`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "photo_url", "created_at"}).
			AddRow("photo-1", "post-2", "https://media.routefeel.example/p1.jpg", time.Now()))

	svc := NewService(mock)
	posts, err := svc.Feed(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected two posts")
	}
	if posts[0].LikeCount != 3 || posts[0].CommentCount != 1 {
		t.Fatalf("unexpected counts: %+v", posts[0])
	}
	if len(posts[0].Photos) != 1 || posts[0].TripID != "trip-9" {
		t.Fatalf("expected attached photo and trip: %+v", posts[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNearbySortsByRecency(t *testing.T) {
	mock := newMock(t)

	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now()
	mock.ExpectQuery(`WHERE ST_DWithin`).
		WithArgs(4.90, 52.37, 5000.0).
		WillReturnRows(postRows().
			AddRow("post-1", "user-1", "", "Old", 52.37, 4.90, "public", 0, 0, older).
			AddRow("post-2", "user-2", "", "New", 52.37, 4.90, "public", 0, 0, newer))

	mock.ExpectQuery(`SELECT id, post_id, photo_url, created_at`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "photo_url", "created_at"}))

	svc := NewService(mock)
	posts, err := svc.Nearby(context.Background(), 52.37, 4.90, 5)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "post-2" {
		t.Fatalf("expected newest first: %+v", posts)
	}
}

func TestFollowAndErrors(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectExec(`INSERT INTO user_follows`).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := svc.Follow(context.Background(), "user-1", "user-2"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	mock.ExpectQuery(`SELECT p.id, p.user_id, COALESCE\(p.trip_id,''\)`).
		WithArgs("user-1").
		WillReturnError(errQuery)
	if _, err := svc.Feed(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected feed error")
	}
}
