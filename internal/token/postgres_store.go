package token

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG implements Store on top of Postgres, one row per live token.
type PG struct {
	db *pgxpool.Pool
}

func NewPG(db *pgxpool.Pool) *PG {
	return &PG{db: db}
}

func (s *PG) Create(ctx context.Context, t Token) (Token, error) {
	t.ID = uuid.New().String()
	_, err := s.db.Exec(ctx, `
	INSERT INTO oai_tokens (id, verb, metadata_prefix, cursor, set_spec, from_date, until_date, expiration)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Verb, t.MetadataPrefix, t.Cursor, t.Set, t.From, t.Until, t.Expiration)
	if err != nil {
		return Token{}, err
	}
	return t, nil
}

func (s *PG) Find(ctx context.Context, id string) (*Token, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var t Token
	// The expiration guard keeps the result valid even when another
	// request purges concurrently.
	err := s.db.QueryRow(ctx, `
	SELECT id, verb, metadata_prefix, cursor, set_spec, from_date, until_date, expiration
	FROM oai_tokens
	WHERE id = $1 AND expiration > now()`, id).
		Scan(&t.ID, &t.Verb, &t.MetadataPrefix, &t.Cursor, &t.Set, &t.From, &t.Until, &t.Expiration)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PG) PurgeExpired(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM oai_tokens WHERE expiration <= now()`)
	return err
}
