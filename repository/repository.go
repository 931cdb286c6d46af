package repository

import (
	"encoding/json"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"

	"idle-dag/db"
	"idle-dag/models"
)

// ErrNoSave is returned when a lookup finds no save.
var ErrNoSave = errors.New("no save found")

const (
	savePrefix = "save:"
	// kept outside savePrefix so no save ID can collide with it
	latestKey  = "latest_save"
)

// SaveRepository abstracts where game saves are kept from the game logic
type SaveRepository interface {
	PutSave(save *models.Save) error
	GetSave(id string) (*models.Save, error)
	GetLatestSave() (*models.Save, error)
}

// LevelSaveRepository implements SaveRepository using LevelDB as the storage backend
type LevelSaveRepository struct {
	db *db.LevelDB
}

// NewLevelSaveRepository creates and returns a new LevelSaveRepository instance
func NewLevelSaveRepository(db *db.LevelDB) *LevelSaveRepository {
	return &LevelSaveRepository{db: db}
}

// latestRef points at the newest save so lookups do not scan the store.
type latestRef struct {
	ID      string `json:"id"`
	SavedAt int64  `json:"saved_at"`
}

// PutSave stores a save under its ID and moves the latest pointer to it
// unless a newer save is already recorded. On equal timestamps the later
// write wins.
func (r *LevelSaveRepository) PutSave(save *models.Save) error {
	if save.ID == "" {
		return errors.New("save has no id")
	}
	data, err := json.Marshal(save)
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put([]byte(savePrefix+save.ID), data)

	ref, err := r.latest()
	if errors.Is(err, db.ErrNotFound) {
		ref, err = r.seedLatest()
	}
	if err != nil {
		return err
	}
	if ref == nil || save.SavedAt >= ref.SavedAt {
		refData, err := json.Marshal(latestRef{ID: save.ID, SavedAt: save.SavedAt})
		if err != nil {
			return err
		}
		batch.Put([]byte(latestKey), refData)
	}
	return r.db.Write(batch)
}

func (r *LevelSaveRepository) latest() (*latestRef, error) {
	data, err := r.db.Get([]byte(latestKey))
	if err != nil {
		return nil, err
	}
	var ref latestRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// seedLatest builds the pointer for a store that has none yet. It returns
// nil when the store holds no saves.
func (r *LevelSaveRepository) seedLatest() (*latestRef, error) {
	save, err := r.scanLatest()
	if errors.Is(err, ErrNoSave) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &latestRef{ID: save.ID, SavedAt: save.SavedAt}, nil
}

// GetSave retrieves a save by its ID
func (r *LevelSaveRepository) GetSave(id string) (*models.Save, error) {
	data, err := r.db.Get([]byte(savePrefix + id))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNoSave
		}
		return nil, err
	}
	var save models.Save
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, err
	}
	return &save, nil
}

// GetLatestSave follows the latest pointer. Stores written before the
// pointer existed are scanned once.
func (r *LevelSaveRepository) GetLatestSave() (*models.Save, error) {
	ref, err := r.latest()
	switch {
	case err == nil:
		return r.GetSave(ref.ID)
	case errors.Is(err, db.ErrNotFound):
		return r.scanLatest()
	default:
		return nil, err
	}
}

func (r *LevelSaveRepository) scanLatest() (*models.Save, error) {
	iter := r.db.PrefixIterator([]byte(savePrefix))
	defer iter.Release()

	var latest *models.Save
	for iter.Next() {
		var save models.Save
		if err := json.Unmarshal(iter.Value(), &save); err != nil {
			return nil, err
		}
		if latest == nil || save.SavedAt > latest.SavedAt {
			latest = &save
		}
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrNoSave
	}
	return latest, nil
}
