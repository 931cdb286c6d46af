package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"idle-dag/models"
)

// SQLiteSaveRepository implements SaveRepository on the saves table
type SQLiteSaveRepository struct {
	db *sql.DB
}

// NewSQLiteSaveRepository wraps a connection opened by db.OpenSQLite
func NewSQLiteSaveRepository(conn *sql.DB) *SQLiteSaveRepository {
	return &SQLiteSaveRepository{db: conn}
}

// PutSave inserts or replaces a save. A replaced row gets a new rowid, so it
// counts as the latest write on timestamp ties.
func (r *SQLiteSaveRepository) PutSave(save *models.Save) error {
	if save.ID == "" {
		return errors.New("save has no id")
	}
	body, err := json.Marshal(save)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT OR REPLACE INTO saves (id, saved_at, body) VALUES (?, ?, ?)`,
		save.ID, save.SavedAt, string(body),
	)
	if err != nil {
		return fmt.Errorf("insert save %s: %w", save.ID, err)
	}
	return nil
}

// GetSave retrieves a save by its ID
func (r *SQLiteSaveRepository) GetSave(id string) (*models.Save, error) {
	return r.scanOne(r.db.QueryRow(`SELECT body FROM saves WHERE id = ?`, id))
}

// GetLatestSave retrieves the save with the highest saved_at, breaking ties
// by write order
func (r *SQLiteSaveRepository) GetLatestSave() (*models.Save, error) {
	return r.scanOne(r.db.QueryRow(`SELECT body FROM saves ORDER BY saved_at DESC, rowid DESC LIMIT 1`))
}

func (r *SQLiteSaveRepository) scanOne(row *sql.Row) (*models.Save, error) {
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSave
		}
		return nil, err
	}
	var save models.Save
	if err := json.Unmarshal([]byte(body), &save); err != nil {
		return nil, err
	}
	return &save, nil
}
