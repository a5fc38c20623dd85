package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/hackathon-teams/internal/db"
)

var teamColumns = []any{
	"id",
	"hackathon_id",
	"name",
	"description",
	"leader_id",
	"members",
	"join_requests",
	"looking_for",
	"tech_stack",
	"status",
	"project_repo",
	"version",
	"created_at",
	"updated_at",
}

type pgxTeamRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewPgxTeamRepository(pool *pgxpool.Pool, table string) TeamRepository {
	return &pgxTeamRepository{pool: pool, table: table}
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into(psql.Quote(p.table),
			"id", "hackathon_id", "name", "description", "leader_id", "members",
			"join_requests", "looking_for", "tech_stack", "status", "project_repo",
		),
		im.Values(
			psql.Arg(team.ID),
			psql.Arg(team.HackathonID),
			psql.Arg(team.Name),
			psql.Arg(team.Description),
			psql.Arg(team.LeaderID),
			psql.Arg(nonNil(team.Members)),
			psql.Arg(nonNil(team.JoinRequests)),
			psql.Arg(nonNil(team.LookingFor)),
			psql.Arg(nonNil(team.TechStack)),
			psql.Arg(team.Status),
			psql.Arg(team.ProjectRepo),
		),
		im.Returning("version", "created_at", "updated_at"),
	)

	sql, args, err := q.Build()
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&team.Version, &team.CreatedAt, &team.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}

	return err
}

// Get locks the row when called inside a transaction so that concurrent
// read-modify-write cycles on one team are serialized.
func (p *pgxTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(teamColumns...),
		sm.From(psql.Quote(p.table)),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if db.InTransaction(ctx) {
		mods = append(mods, sm.ForUpdate())
	}

	sql, args, err := psql.Select(mods...).Build()
	if err != nil {
		return nil, err
	}

	team, err := scanTeam(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (p *pgxTeamRepository) Update(ctx context.Context, team *Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table(psql.Quote(p.table)),
		um.SetCol("hackathon_id").ToArg(team.HackathonID),
		um.SetCol("name").ToArg(team.Name),
		um.SetCol("description").ToArg(team.Description),
		um.SetCol("leader_id").ToArg(team.LeaderID),
		um.SetCol("members").ToArg(nonNil(team.Members)),
		um.SetCol("join_requests").ToArg(nonNil(team.JoinRequests)),
		um.SetCol("looking_for").ToArg(nonNil(team.LookingFor)),
		um.SetCol("tech_stack").ToArg(nonNil(team.TechStack)),
		um.SetCol("status").ToArg(team.Status),
		um.SetCol("project_repo").ToArg(team.ProjectRepo),
		um.SetCol("version").ToArg(team.Version+1),
		um.SetCol("updated_at").ToArg(time.Now().UTC()),
		um.Where(psql.Quote("id").EQ(psql.Arg(team.ID))),
		um.Where(psql.Quote("version").EQ(psql.Arg(team.Version))),
		um.Returning("version", "updated_at"),
	)

	sql, args, err := q.Build()
	if err != nil {
		return err
	}

	if err = e.QueryRow(ctx, sql, args...).Scan(&team.Version, &team.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (p *pgxTeamRepository) Delete(ctx context.Context, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From(psql.Quote(p.table)),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build()
	if err != nil {
		return err
	}

	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgxTeamRepository) List(ctx context.Context, limit int) ([]*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From(psql.Quote(p.table)),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Team, error) {
		return scanTeam(row)
	})
}

func scanTeam(row pgx.Row) (*Team, error) {
	team := &Team{}
	// leader_id may be absent on documents written by other clients
	var leaderID *string

	if err := row.Scan(
		&team.ID,
		&team.HackathonID,
		&team.Name,
		&team.Description,
		&leaderID,
		&team.Members,
		&team.JoinRequests,
		&team.LookingFor,
		&team.TechStack,
		&team.Status,
		&team.ProjectRepo,
		&team.Version,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if leaderID != nil {
		team.LeaderID = *leaderID
	}
	return team, nil
}
