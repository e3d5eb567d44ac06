package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PostgresStore implements ProgressStore on top of a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// SetupDatabase connects to Postgres and makes sure the progression tables
// exist
func SetupDatabase(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Interactions are human-paced; a small pool is plenty
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.ConnConfig.RuntimeParams = map[string]string{
		"application_name": "pp-bot",
		"timezone":         "UTC",
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	conn.Release()

	store := &PostgresStore{pool: pool}
	if err := store.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Database connected successfully")
	return store, nil
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) createTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS user_skill (
		user_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		experience BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, name)
	);
	CREATE TABLE IF NOT EXISTS user_pp (
		user_id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		multiplier DOUBLE PRECISION NOT NULL DEFAULT 1
	);`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create progression tables: %w", err)
	}
	return nil
}

// UserSkills loads every skill row for a user
func (s *PostgresStore) UserSkills(ctx context.Context, userID int64) ([]*Skill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, experience FROM user_skill WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user skills: %w", err)
	}
	defer rows.Close()

	var skills []*Skill
	for rows.Next() {
		skill := &Skill{}
		if err := rows.Scan(&skill.Name, &skill.Experience); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// UserPp loads a user's pp row, returning (nil, nil) when none exists
func (s *PostgresStore) UserPp(ctx context.Context, userID int64) (*Pp, error) {
	pp := &Pp{}
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, name, size, multiplier FROM user_pp WHERE user_id = $1`, userID).
		Scan(&pp.UserID, &pp.Name, &pp.Size, &pp.Multiplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user pp: %w", err)
	}
	return pp, nil
}

// AddSkillExperience adds a delta to a skill's stored experience, creating
// the row when the user first trains the skill
func (s *PostgresStore) AddSkillExperience(ctx context.Context, userID int64, name string, delta int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_skill (user_id, name, experience) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET
		experience = user_skill.experience + EXCLUDED.experience`,
		userID, name, delta)
	if err != nil {
		return fmt.Errorf("failed to upsert skill %s for user %d: %w", name, userID, err)
	}
	return nil
}

// UpsertPp overwrites a user's stored pp
func (s *PostgresStore) UpsertPp(ctx context.Context, pp *Pp) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_pp (user_id, name, size, multiplier) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
		name = EXCLUDED.name, size = EXCLUDED.size, multiplier = EXCLUDED.multiplier`,
		pp.UserID, pp.Name, pp.Size, pp.Multiplier)
	if err != nil {
		return fmt.Errorf("failed to upsert pp for user %d: %w", pp.UserID, err)
	}
	return nil
}
