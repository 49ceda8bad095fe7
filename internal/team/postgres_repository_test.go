package team_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/daap14/billing/internal/database/dbtest"
	"github.com/daap14/billing/internal/team"
)

func TestRepository_GetByID(t *testing.T) {
	db := new(dbtest.MockDBTX)
	repo := team.NewRepository(db)

	now := time.Now().UTC()
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{int64(4)}).
		Return(&dbtest.Row{Values: []any{int64(4), "Alice", true, int64(1), now, now}})

	tm, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, team.Team{ID: 4, Name: "Alice", IsPersonal: true, UserID: 1, CreatedAt: now, UpdatedAt: now}, *tm)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db := new(dbtest.MockDBTX)
	repo := team.NewRepository(db)

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&dbtest.Row{Err: pgx.ErrNoRows})

	_, err := repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, team.ErrTeamNotFound)
}

func TestRepository_ListByUser(t *testing.T) {
	db := new(dbtest.MockDBTX)
	repo := team.NewRepository(db)

	now := time.Now().UTC()
	rows := dbtest.NewRows(
		[]any{int64(4), "Alice", true, int64(1), now, now},
		[]any{int64(8), "Side project", false, int64(1), now, now},
	)
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), []any{int64(1)}).Return(rows, nil)

	teams, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.True(t, teams[0].IsPersonal)
	assert.Equal(t, "Side project", teams[1].Name)
}

func TestRepository_ListByUser_Empty(t *testing.T) {
	db := new(dbtest.MockDBTX)
	repo := team.NewRepository(db)

	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(dbtest.NewRows(), nil)

	teams, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestRepository_ListByUser_ScanError(t *testing.T) {
	db := new(dbtest.MockDBTX)
	repo := team.NewRepository(db)

	rows := dbtest.NewRows([]any{int64(4)})
	rows.ScanErr = errors.New("bad column")
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	_, err := repo.ListByUser(context.Background(), 1)
	assert.Error(t, err)
}
