package club

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

func TestCreateEnrollsOwner(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO clubs`).
		WithArgs(pgxmock.AnyArg(), "Canal Riders", "Evening rides along the canals", "Amsterdam", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(`INSERT INTO club_members`).
		WithArgs(pgxmock.AnyArg(), "user-1", "owner").
		WillReturnRows(pgxmock.NewRows([]string{"joined_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	club, err := svc.Create(context.Background(), Club{
		Name:        "Canal Riders",
		Description: "Evening rides along the canals",
		HomeCity:    "Amsterdam",
		CreatedBy:   "user-1",
	})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	if club.ID == "" {
		t.Fatalf("expected generated id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJoinDefaultsToMemberRole(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO club_members`).
		WithArgs("club-1", "user-2", "member").
		WillReturnRows(pgxmock.NewRows([]string{"joined_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	member, err := svc.Join(context.Background(), "club-1", "user-2", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if member.Role != "member" {
		t.Fatalf("expected default role, got %q", member.Role)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJoinUpgradesRoleOnConflict(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`ON CONFLICT \(club_id, user_id\) DO UPDATE SET role=EXCLUDED.role`).
		WithArgs("club-1", "user-2", "admin").
		WillReturnRows(pgxmock.NewRows([]string{"joined_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	member, err := svc.Join(context.Background(), "club-1", "user-2", "admin")
	if err != nil || member.Role != "admin" {
		t.Fatalf("join upgrade: %v %+v", err, member)
	}
}

func TestLeaveAndMembers(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectExec(`DELETE FROM club_members`).
		WithArgs("club-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.Leave(context.Background(), "club-1", "user-2"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	mock.ExpectQuery(`SELECT club_id, user_id, role, joined_at`).
		WithArgs("club-1").
		WillReturnRows(pgxmock.NewRows([]string{"club_id", "user_id", "role", "joined_at"}).
			AddRow("club-1", "user-1", "owner", time.Now().Add(-time.Hour)).
			AddRow("club-1", "user-3", "member", time.Now()))
	members, err := svc.Members(context.Background(), "club-1")
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 || members[0].Role != "owner" {
		t.Fatalf("unexpected members: %+v", members)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestForUser(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`JOIN club_members m ON m.club_id = c.id`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "home_city", "created_by", "created_at"}).
			AddRow("club-1", "Canal Riders", "", "Amsterdam", "user-1", time.Now()))

	svc := NewService(mock)
	clubs, err := svc.ForUser(context.Background(), "user-1")
	if err != nil || len(clubs) != 1 {
		t.Fatalf("clubs for user: %v", err)
	}
	if clubs[0].Name != "Canal Riders" {
		t.Fatalf("unexpected club: %+v", clubs[0])
	}
}

func TestGetError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, description, home_city`).
		WithArgs("club-missing").
		WillReturnError(errQuery)

	svc := NewService(mock)
	if _, err := svc.Get(context.Background(), "club-missing"); err == nil {
		t.Fatalf("expected error")
	}
}
