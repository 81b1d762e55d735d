package book

import (
	"encoding/binary"

	"github.com/hailam/haloengine/internal/board"
	"github.com/hailam/haloengine/internal/storage"
)

// Store persists book entries learned outside of the raw Polyglot file —
// e.g. moves added via a "bookadd" UCI extension — in a BadgerDB database,
// keyed by the same Zobrist/Polyglot hash used for lookups.
type Store struct {
	db *storage.Store
}

// OpenStore opens (creating if necessary) the persisted book store at dir.
func OpenStore(dir string) (*Store, error) {
	db, err := storage.Open(dir)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func entryKey(positionKey uint64, move uint16) []byte {
	var b [10]byte
	binary.BigEndian.PutUint64(b[0:8], positionKey)
	binary.BigEndian.PutUint16(b[8:10], move)
	return b[:]
}

// Add records an entry under positionKey, de-duplicating by (position,
// move): a repeated Add for the same move only bumps its weight.
func (s *Store) Add(positionKey uint64, entry BookEntry) error {
	key := entryKey(positionKey, uint16(entry.Move))

	if raw, ok, err := s.db.Get(key); err != nil {
		return err
	} else if ok && len(raw) >= 2 {
		entry.Weight += binary.BigEndian.Uint16(raw)
	}

	var value [2]byte
	binary.BigEndian.PutUint16(value[:], entry.Weight)
	return s.db.Set(key, value[:])
}

// LoadInto merges every persisted entry into b, in addition to whatever b
// already holds from a loaded Polyglot file.
func (s *Store) LoadInto(b *Book) error {
	return s.db.ForEach(nil, func(key, value []byte) error {
		if len(key) != 10 || len(value) < 2 {
			return nil
		}
		positionKey := binary.BigEndian.Uint64(key[0:8])
		move := binary.BigEndian.Uint16(key[8:10])
		weight := binary.BigEndian.Uint16(value)

		b.entries[positionKey] = append(b.entries[positionKey], BookEntry{
			Move:   board.Move(move),
			Weight: weight,
		})
		return nil
	})
}
