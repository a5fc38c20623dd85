package repository

import (
	"context"
	"time"

	"github.com/yakoovad/hackathon-teams/internal/model"
)

type Team struct {
	ID           string           `db:"id" bson:"_id"`
	HackathonID  string           `db:"hackathon_id" bson:"hackathon_id"`
	Name         string           `db:"name" bson:"name"`
	Description  string           `db:"description" bson:"description"`
	LeaderID     string           `db:"leader_id" bson:"leader_id"`
	Members      []string         `db:"members" bson:"members"`
	JoinRequests []string         `db:"join_requests" bson:"join_requests"`
	LookingFor   []string         `db:"looking_for" bson:"looking_for"`
	TechStack    []string         `db:"tech_stack" bson:"tech_stack"`
	Status       model.TeamStatus `db:"status" bson:"status"`
	ProjectRepo  *string          `db:"project_repo" bson:"project_repo,omitempty"`
	Version      int64            `db:"version" bson:"version"`
	CreatedAt    time.Time        `db:"created_at" bson:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" bson:"updated_at"`
}

// TeamRepository stores teams as documents of one collection.
//
// Update is conditional on team.Version: it fails with ErrConflict when the
// stored version differs, and bumps team.Version on success.
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	Get(ctx context.Context, id string) (*Team, error)
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]*Team, error)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
