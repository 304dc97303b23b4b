package club

import (
	"context"

	"backend-routefeel/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create stores the club and enrolls the creator as its owner.
func (s *Service) Create(ctx context.Context, input Club) (Club, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO clubs (id, name, description, home_city, created_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.HomeCity, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Club{}, err
	}

	if _, err := s.Join(ctx, input.ID, input.CreatedBy, "owner"); err != nil {
		return Club{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Club, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, home_city, created_by, created_at
		FROM clubs WHERE id=$1
	`, id)
	var club Club
	if err := row.Scan(&club.ID, &club.Name, &club.Description, &club.HomeCity, &club.CreatedBy, &club.CreatedAt); err != nil {
		return Club{}, err
	}
	return club, nil
}

func (s *Service) Join(ctx context.Context, clubID, userID, role string) (Member, error) {
	if role == "" {
		role = "member"
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO club_members (club_id, user_id, role)
		VALUES ($1,$2,$3)
		ON CONFLICT (club_id, user_id) DO UPDATE SET role=EXCLUDED.role
		RETURNING joined_at
	`, clubID, userID, role)
	member := Member{ClubID: clubID, UserID: userID, Role: role}
	if err := row.Scan(&member.JoinedAt); err != nil {
		return Member{}, err
	}
	return member, nil
}

func (s *Service) Leave(ctx context.Context, clubID, userID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM club_members WHERE club_id=$1 AND user_id=$2
	`, clubID, userID)
	return err
}

func (s *Service) Members(ctx context.Context, clubID string) ([]Member, error) {
	rows, err := s.db.Query(ctx, `
		SELECT club_id, user_id, role, joined_at
		FROM club_members WHERE club_id=$1
		ORDER BY joined_at
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ClubID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (s *Service) ForUser(ctx context.Context, userID string) ([]Club, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.name, c.description, c.home_city, c.created_by, c.created_at
		FROM clubs c
		JOIN club_members m ON m.club_id = c.id
		WHERE m.user_id=$1
		ORDER BY c.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []Club
	for rows.Next() {
		var c Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.HomeCity, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, nil
}
