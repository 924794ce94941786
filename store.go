package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// PlayerRecord is the persisted slice of a player: identity, last position
// and raw experience totals. Levels are derived from experience on load, so
// the database never stores a level that disagrees with its experience.
type PlayerRecord struct {
	ID      string
	Account string
	X       int
	Y       int
	Skills  Skills
}

// Store persists player records in a local sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the sqlite database at path and runs
// migrations. Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS players (
	id            TEXT PRIMARY KEY,
	account       TEXT NOT NULL,
	x             INTEGER NOT NULL,
	y             INTEGER NOT NULL,
	attack_xp     INTEGER NOT NULL DEFAULT 0,
	strength_xp   INTEGER NOT NULL DEFAULT 0,
	defence_xp    INTEGER NOT NULL DEFAULT 0,
	hitpoints_xp  INTEGER NOT NULL DEFAULT 0,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_players_account ON players(account);
`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SavePlayer upserts one record.
func (s *Store) SavePlayer(ctx context.Context, rec PlayerRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO players (id, account, x, y, attack_xp, strength_xp, defence_xp, hitpoints_xp, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	account = excluded.account,
	x = excluded.x,
	y = excluded.y,
	attack_xp = excluded.attack_xp,
	strength_xp = excluded.strength_xp,
	defence_xp = excluded.defence_xp,
	hitpoints_xp = excluded.hitpoints_xp,
	updated_at = excluded.updated_at
`, rec.ID, rec.Account, rec.X, rec.Y,
		rec.Skills.Attack.XP, rec.Skills.Strength.XP,
		rec.Skills.Defence.XP, rec.Skills.Hitpoints.XP,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save player %s: %w", rec.ID, err)
	}
	return nil
}

// LoadPlayer fetches one record. The second return is false when no record
// exists for the ID.
func (s *Store) LoadPlayer(ctx context.Context, id string) (PlayerRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT account, x, y, attack_xp, strength_xp, defence_xp, hitpoints_xp
FROM players WHERE id = ?`, id)

	var rec PlayerRecord
	var attackXP, strengthXP, defenceXP, hitpointsXP int64
	err := row.Scan(&rec.Account, &rec.X, &rec.Y,
		&attackXP, &strengthXP, &defenceXP, &hitpointsXP)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerRecord{}, false, nil
	}
	if err != nil {
		return PlayerRecord{}, false, fmt.Errorf("load player %s: %w", id, err)
	}
	rec.ID = id
	rec.Skills = Skills{
		Attack:    skillFromXP(attackXP),
		Strength:  skillFromXP(strengthXP),
		Defence:   skillFromXP(defenceXP),
		Hitpoints: skillFromXP(hitpointsXP),
	}
	return rec, true, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
