package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Board keeps weekly distance leaderboards in redis sorted sets, one
// key per scope per ISO week. A nil redis client turns every operation
// into a no-op so the API keeps working without redis configured.
type Board struct {
	redis *redis.Client
}

// Entry is one leaderboard row. Rank is 1-based; -1 means unranked.
type Entry struct {
	Rank      int64   `json:"rank"`
	UserID    string  `json:"user_id"`
	DistanceM float64 `json:"distance_m"`
}

const GlobalScope = "global"

func ClubScope(clubID string) string {
	return "club:" + clubID
}

func NewBoard(redisClient *redis.Client) *Board {
	return &Board{redis: redisClient}
}

var nowFn = time.Now

func weekKey(scope string, t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("leaderboard:%s:%d-W%02d", scope, year, week)
}

// Credit adds finished-trip distance to the user's global board and to
// every club board they belong to, all in the current week.
func (b *Board) Credit(ctx context.Context, userID string, clubIDs []string, meters float64) error {
	if b.redis == nil || meters <= 0 {
		return nil
	}

	now := nowFn()
	scopes := make([]string, 0, len(clubIDs)+1)
	scopes = append(scopes, GlobalScope)
	for _, clubID := range clubIDs {
		scopes = append(scopes, ClubScope(clubID))
	}

	for _, scope := range scopes {
		if err := b.redis.ZIncrBy(ctx, weekKey(scope, now), meters, userID).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Top returns the highest-distance entries for the scope's current week.
func (b *Board) Top(ctx context.Context, scope string, limit int64) ([]Entry, error) {
	if b.redis == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := b.redis.ZRevRangeWithScores(ctx, weekKey(scope, nowFn()), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		userID, _ := row.Member.(string)
		entries = append(entries, Entry{
			Rank:      int64(i) + 1,
			UserID:    userID,
			DistanceM: row.Score,
		})
	}
	return entries, nil
}

// Rank returns the user's entry in the scope's current week.
func (b *Board) Rank(ctx context.Context, scope, userID string) (Entry, error) {
	unranked := Entry{Rank: -1, UserID: userID}
	if b.redis == nil {
		return unranked, nil
	}

	key := weekKey(scope, nowFn())
	rank, err := b.redis.ZRevRank(ctx, key, userID).Result()
	if err == redis.Nil {
		return unranked, nil
	}
	if err != nil {
		return Entry{}, err
	}

	score, err := b.redis.ZScore(ctx, key, userID).Result()
	if err != nil && err != redis.Nil {
		return Entry{}, err
	}
	return Entry{Rank: rank + 1, UserID: userID, DistanceM: score}, nil
}
