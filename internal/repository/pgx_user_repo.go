package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/hackathon-teams/internal/db"
)

type pgxUserRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewPgxUserRepository(pool *pgxpool.Pool, table string) UserRepository {
	return &pgxUserRepository{pool: pool, table: table}
}

func (p *pgxUserRepository) List(ctx context.Context, limit int) ([]*User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "username", "bio", "avatar_url", "github_url", "skills", "xp", "reputation_score", "account_id"),
		sm.From(psql.Quote(p.table)),
		sm.OrderBy(psql.Quote("created_at")),
		sm.Limit(limit),
	)

	sql, args, err := q.Build()
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*User, error) {
		u := &User{}
		if err := row.Scan(
			&u.ID,
			&u.Username,
			&u.Bio,
			&u.AvatarURL,
			&u.GithubURL,
			&u.Skills,
			&u.XP,
			&u.ReputationScore,
			&u.AccountID,
		); err != nil {
			return nil, err
		}
		return u, nil
	})
}
