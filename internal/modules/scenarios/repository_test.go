package scenarios

import (
	"testing"

	testingpkg "github.com/aristath/retail-insights/internal/testing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SaveAndGet(t *testing.T) {
	db := testingpkg.NewTestDB(t, "analytics")
	repo := NewRepository(db.Conn(), zerolog.Nop())

	result := Result{
		Category:      "Toys",
		NewPrice:      5,
		BaselinePrice: 10,
		Rows:          2,
		OldDemand:     150,
		NewDemand:     175,
		PctChange:     16.5,
	}

	run, err := repo.Save(result, "models/random_forest.json")
	require.NoError(t, err)
	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)

	got, err := repo.Get(run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, result, got.Result)
	assert.Equal(t, "models/random_forest.json", got.ModelSource)
	assert.Equal(t, run.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestRepository_GetMissing(t *testing.T) {
	db := testingpkg.NewTestDB(t, "analytics")
	repo := NewRepository(db.Conn(), zerolog.Nop())

	got, err := repo.Get(uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_ListNewestFirst(t *testing.T) {
	db := testingpkg.NewTestDB(t, "analytics")
	repo := NewRepository(db.Conn(), zerolog.Nop())

	var ids []string
	for _, category := range []string{"A", "B", "C"} {
		run, err := repo.Save(Result{Category: category, OldDemand: 1}, "")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	all, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)
	assert.Empty(t, all[0].ModelSource)

	limited, err := repo.List(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "C", limited[0].Category)
}

func TestRepository_ListEmpty(t *testing.T) {
	db := testingpkg.NewTestDB(t, "analytics")
	repo := NewRepository(db.Conn(), zerolog.Nop())

	runs, err := repo.List(10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}
