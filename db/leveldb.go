package db

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is what Get returns for a key that was never written.
var ErrNotFound = leveldb.ErrNotFound

// LevelDB is the key-value store behind the save repository.
type LevelDB struct {
	conn *leveldb.DB
}

// NewLevelDB opens the store under path, creating it on first use.
func NewLevelDB(path string) (*LevelDB, error) {
	conn, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{conn: conn}, nil
}

// NewMemLevelDB opens a store that is dropped on Close. Tests use it.
func NewMemLevelDB() (*LevelDB, error) {
	conn, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{conn: conn}, nil
}

func (l *LevelDB) Close() error {
	return l.conn.Close()
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.conn.Put(key, value, nil)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.conn.Get(key, nil)
}

// Write applies every operation in batch atomically.
func (l *LevelDB) Write(batch *leveldb.Batch) error {
	return l.conn.Write(batch, nil)
}

// PrefixIterator walks the keys under prefix in key order. Callers must
// Release it.
func (l *LevelDB) PrefixIterator(prefix []byte) iterator.Iterator {
	return l.conn.NewIterator(util.BytesPrefix(prefix), nil)
}
