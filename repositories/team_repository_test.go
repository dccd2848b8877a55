package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockTeamRepository(t *testing.T) (TeamRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresTeamRepository(db), mock
}

func TestTeamRepository_AddMember(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO team_members (team_id, abbreviation, position)")

	t.Run("appends member", func(t *testing.T) {
		repo, mock := newMockTeamRepository(t)
		mock.ExpectExec(insert).WithArgs(7, "ABC").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.AddMember(context.Background(), nil, 7, "ABC"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	cases := []struct {
		name string
		err  *pq.Error
		want error
	}{
		{"already on team", &pq.Error{Code: "23505", Constraint: "team_members_pkey"}, ErrTeamMemberConflict},
		{"unknown team", &pq.Error{Code: "23503", Constraint: MemberTeamConstraint}, ErrTeamNotFound},
		{"unknown player", &pq.Error{Code: "23503", Constraint: MemberPlayerConstraint}, ErrPlayerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockTeamRepository(t)
			mock.ExpectExec(insert).WithArgs(7, "ABC").WillReturnError(tc.err)

			err := repo.AddMember(context.Background(), nil, 7, "ABC")
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("other foreign key is not mistaken for a missing row", func(t *testing.T) {
		repo, mock := newMockTeamRepository(t)
		pqErr := &pq.Error{Code: "23503", Constraint: "some_other_fkey"}
		mock.ExpectExec(insert).WithArgs(7, "ABC").WillReturnError(pqErr)

		err := repo.AddMember(context.Background(), nil, 7, "ABC")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTeamNotFound)
		assert.NotErrorIs(t, err, ErrPlayerNotFound)
		var got *pq.Error
		assert.True(t, errors.As(err, &got))
	})
}

func TestTeamRepository_RemovePlayerFromAll(t *testing.T) {
	del := regexp.QuoteMeta("DELETE FROM team_members WHERE abbreviation = $1 RETURNING team_id")

	t.Run("returns affected teams", func(t *testing.T) {
		repo, mock := newMockTeamRepository(t)
		mock.ExpectQuery(del).WithArgs("ABC").
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(1).AddRow(3))

		ids, err := repo.RemovePlayerFromAll(context.Background(), nil, "ABC")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("player on no team", func(t *testing.T) {
		repo, mock := newMockTeamRepository(t)
		mock.ExpectQuery(del).WithArgs("ABC").WillReturnRows(sqlmock.NewRows([]string{"team_id"}))

		ids, err := repo.RemovePlayerFromAll(context.Background(), nil, "ABC")
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockTeamRepository(t)
		mock.ExpectQuery(del).WithArgs("ABC").WillReturnError(errors.New("connection reset"))

		_, err := repo.RemovePlayerFromAll(context.Background(), nil, "ABC")
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestTeamRepository_RenameMissingTeam(t *testing.T) {
	repo, mock := newMockTeamRepository(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teams SET name = $1 WHERE id = $2")).
		WithArgs("Owls", 9).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Rename(context.Background(), nil, 9, "Owls"), ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_usesGivenExecutor(t *testing.T) {
	repo, mock := newMockTeamRepository(t)

	other, otherMock, err := sqlmock.New()
	require.NoError(t, err)
	defer other.Close()
	otherMock.ExpectExec(regexp.QuoteMeta("DELETE FROM team_members WHERE team_id = $1")).
		WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.ClearMembers(context.Background(), other, 4))
	assert.NoError(t, otherMock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}
