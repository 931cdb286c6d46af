package repository_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idle-dag/db"
	"idle-dag/models"
	"idle-dag/repository"
)

func levelRepo(t *testing.T) repository.SaveRepository {
	t.Helper()
	ldb, err := db.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })
	return repository.NewLevelSaveRepository(ldb)
}

func sqliteRepo(t *testing.T) repository.SaveRepository {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return repository.NewSQLiteSaveRepository(conn)
}

func sampleSave(id string, at int64, currency int64) *models.Save {
	return &models.Save{
		ID:       id,
		SavedAt:  at,
		Currency: currency,
		Nodes: []models.SavedNode{
			{Pos: models.Vec2{}, NodeType: models.Gain(2), TimerSecondsDuration: 3, TimerSecondsLeft: 1, Blockers: []int{1}, ToBlock: []int{}},
			{Pos: models.Vec2{Y: 230}, NodeType: models.Blocker(true), TimerSecondsDuration: 0.5, ToBlock: []int{0}, Blockers: []int{}},
		},
	}
}

func TestSaveRepositories(t *testing.T) {
	backends := map[string]func(*testing.T) repository.SaveRepository{
		"leveldb": levelRepo,
		"sqlite":  sqliteRepo,
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t)

			_, err := repo.GetLatestSave()
			assert.ErrorIs(t, err, repository.ErrNoSave)
			_, err = repo.GetSave("missing")
			assert.ErrorIs(t, err, repository.ErrNoSave)

			require.NoError(t, repo.PutSave(sampleSave("b", 200, 7)))
			require.NoError(t, repo.PutSave(sampleSave("a", 100, 3)))

			latest, err := repo.GetLatestSave()
			require.NoError(t, err)
			assert.Equal(t, "b", latest.ID)
			assert.Equal(t, int64(7), latest.Currency)
			assert.Equal(t, sampleSave("b", 200, 7).Nodes, latest.Nodes)

			byID, err := repo.GetSave("a")
			require.NoError(t, err)
			assert.Equal(t, int64(3), byID.Currency)

			// overwriting keeps one row per id
			require.NoError(t, repo.PutSave(sampleSave("a", 300, 9)))
			latest, err = repo.GetLatestSave()
			require.NoError(t, err)
			assert.Equal(t, "a", latest.ID)
			assert.Equal(t, int64(9), latest.Currency)

			assert.Error(t, repo.PutSave(&models.Save{}))
		})
	}
}

func TestSaveRepositories_TieGoesToLaterWrite(t *testing.T) {
	backends := map[string]func(*testing.T) repository.SaveRepository{
		"leveldb": levelRepo,
		"sqlite":  sqliteRepo,
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			repo := open(t)

			require.NoError(t, repo.PutSave(sampleSave("first", 500, 1)))
			require.NoError(t, repo.PutSave(sampleSave("second", 500, 2)))

			latest, err := repo.GetLatestSave()
			require.NoError(t, err)
			assert.Equal(t, "second", latest.ID)
		})
	}
}

func TestLevelSaveRepository_ScansStoreWithoutLatestKey(t *testing.T) {
	ldb, err := db.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })

	for _, s := range []*models.Save{sampleSave("old", 100, 1), sampleSave("new", 900, 4)} {
		data, err := json.Marshal(s)
		require.NoError(t, err)
		require.NoError(t, ldb.Put([]byte("save:"+s.ID), data))
	}

	repo := repository.NewLevelSaveRepository(ldb)
	latest, err := repo.GetLatestSave()
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)

	// the next write installs the pointer and takes over
	require.NoError(t, repo.PutSave(sampleSave("newest", 1000, 5)))
	latest, err = repo.GetLatestSave()
	require.NoError(t, err)
	assert.Equal(t, "newest", latest.ID)
}

func TestLevelSaveRepository_OlderWriteKeepsScannedLatest(t *testing.T) {
	ldb, err := db.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })

	data, err := json.Marshal(sampleSave("new", 900, 4))
	require.NoError(t, err)
	require.NoError(t, ldb.Put([]byte("save:new"), data))

	repo := repository.NewLevelSaveRepository(ldb)
	require.NoError(t, repo.PutSave(sampleSave("older", 100, 1)))

	latest, err := repo.GetLatestSave()
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
}
