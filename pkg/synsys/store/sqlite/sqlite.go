package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
)

// sqliteStore implements store.Store on an SQLite lexical database.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// synset schema if missing.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS synsets (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	lang TEXT NOT NULL,
	UNIQUE(id, lang)
);

CREATE TABLE IF NOT EXISTS synset_words (
	synset_seq INTEGER NOT NULL,
	position INTEGER NOT NULL,
	word TEXT NOT NULL,
	word_key TEXT NOT NULL,
	PRIMARY KEY(synset_seq, position),
	FOREIGN KEY(synset_seq) REFERENCES synsets(seq) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_synset_words_key ON synset_words(word_key);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Synsets returns the synsets of lang containing lemma. Synsets come back in
// insertion order and members in their stored position.
func (s *sqliteStore) Synsets(ctx context.Context, lemma, lang string) ([]store.Synset, error) {
	key := store.WordKey(lemma)
	if key == "" {
		return nil, nil
	}

	const query = `
SELECT s.seq, s.id, w.word
FROM synsets s
JOIN synset_words w ON w.synset_seq = s.seq
WHERE s.lang = ?
  AND s.seq IN (SELECT synset_seq FROM synset_words WHERE word_key = ?)
ORDER BY s.seq, w.position;
`

	rows, err := s.db.QueryContext(ctx, query, lang, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out     []store.Synset
		lastSeq int64 = -1
	)
	for rows.Next() {
		var (
			seq  int64
			id   string
			word string
		)
		if err := rows.Scan(&seq, &id, &word); err != nil {
			return nil, err
		}
		if seq != lastSeq {
			out = append(out, store.Synset{ID: id})
			lastSeq = seq
		}
		last := &out[len(out)-1]
		last.Words = append(last.Words, word)
	}
	return out, rows.Err()
}

// UpsertSynsets inserts or replaces synsets in a single transaction.
func (s *sqliteStore) UpsertSynsets(ctx context.Context, lang string, sets []store.Synset) error {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return fmt.Errorf("%w: empty language", internalerr.ErrInvalidInput)
	}
	if len(sets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO synsets (id, lang)
VALUES (?, ?)
ON CONFLICT(id, lang) DO UPDATE SET id=excluded.id
RETURNING seq;
`
	insertWord, err := tx.PrepareContext(ctx, `INSERT INTO synset_words (synset_seq, position, word, word_key) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertWord.Close()

	for _, set := range sets {
		if strings.TrimSpace(set.ID) == "" {
			return fmt.Errorf("%w: synset without id", internalerr.ErrInvalidInput)
		}

		var seq int64
		if err := tx.QueryRowContext(ctx, upsert, set.ID, lang).Scan(&seq); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM synset_words WHERE synset_seq=?`, seq); err != nil {
			return err
		}

		pos := 0
		for _, word := range uniqueWords(set.Words) {
			if _, err := insertWord.ExecContext(ctx, seq, pos, word, store.WordKey(word)); err != nil {
				return err
			}
			pos++
		}
	}

	return tx.Commit()
}

// Stats counts synsets and member words.
func (s *sqliteStore) Stats(ctx context.Context) (store.Stats, error) {
	var st store.Stats
	err := s.db.QueryRowContext(ctx, `
SELECT (SELECT COUNT(*) FROM synsets), (SELECT COUNT(*) FROM synset_words);
`).Scan(&st.Synsets, &st.Words)
	return st, err
}

func uniqueWords(in []string) []string {
	set := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
