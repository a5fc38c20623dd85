package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/hackathon-teams/internal/db"
	"github.com/yakoovad/hackathon-teams/internal/model"
	"github.com/yakoovad/hackathon-teams/internal/repository"
	"github.com/yakoovad/hackathon-teams/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit      = 25
	defaultDirectoryLimit = 100

	maxWriteAttempts = 3
)

type TeamService struct {
	tx db.Transactor

	teams repository.TeamRepository
	users repository.UserRepository

	listLimit      int
	directoryLimit int
	newID          func() string
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx:             tx,
		listLimit:      defaultListLimit,
		directoryLimit: defaultDirectoryLimit,
		newID:          uuid.NewString,
	}
}

func (t *TeamService) CreateTeam(ctx context.Context, in *model.TeamCreate) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating team", zap.String("team_name", in.Name), zap.String("leader_id", in.LeaderID))

	members := dedupe(in.Members)
	if !contains(members, in.LeaderID) {
		members = append(members, in.LeaderID)
	}

	status := in.Status
	if status == "" {
		status = model.TeamStatusOpen
	}

	team := &repository.Team{
		ID:           t.newID(),
		HackathonID:  in.HackathonID,
		Name:         in.Name,
		Description:  in.Description,
		LeaderID:     in.LeaderID,
		Members:      members,
		JoinRequests: []string{},
		LookingFor:   in.LookingFor,
		TechStack:    in.TechStack,
		Status:       status,
		ProjectRepo:  in.ProjectRepo,
	}

	if err := t.teams.Create(ctx, team); err != nil {
		l.Error("failed to create team", zap.String("team_name", in.Name), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, errors.Wrap(err, "failed to create team").Error())
	}

	l.Debug("team created", zap.String("team_id", team.ID))

	return toModelTeam(team), nil
}

func (t *TeamService) GetTeam(ctx context.Context, teamID string) (*model.TeamView, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting team", zap.String("team_id", teamID))

	team, err := t.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("team not found", zap.String("team_id", teamID))
		return nil, NewError(ErrorCodeTeamNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, errors.Wrap(err, "failed to get team").Error())
	}

	return toTeamView(team, t.directoryNames(ctx)), nil
}

// ListTeams returns one page of teams enriched with member display names. The
// directory lookup runs alongside the team query and never fails the request.
func (t *TeamService) ListTeams(ctx context.Context) (*model.TeamList, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("listing teams", zap.Int("limit", t.listLimit))

	var (
		teams []*repository.Team
		names nameLookup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = t.teams.List(gctx, t.listLimit)
		return err
	})
	g.Go(func() error {
		names = t.directoryNames(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Error("failed to list teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, errors.Wrap(err, "failed to list teams").Error())
	}

	res := &model.TeamList{
		Total:     len(teams),
		Documents: make([]*model.TeamView, 0, len(teams)),
	}
	for _, team := range teams {
		res.Documents = append(res.Documents, toTeamView(team, names))
	}

	return res, nil
}

func (t *TeamService) UpdateTeam(ctx context.Context, teamID, actorID string, upd *model.TeamUpdate) (*model.Team, *Error) {
	logger.FromContext(ctx).Info("updating team", zap.String("team_id", teamID), zap.String("user_id", actorID))

	team, _, err := t.mutate(ctx, teamID, "update team", func(team *repository.Team) (outcome, *Error) {
		if team.LeaderID != actorID {
			return 0, NewError(ErrorCodeForbidden, "only the team leader can update the team")
		}

		if upd.Name != nil {
			team.Name = *upd.Name
		}
		if upd.Description != nil {
			team.Description = *upd.Description
		}
		if upd.LookingFor != nil {
			team.LookingFor = *upd.LookingFor
		}
		if upd.TechStack != nil {
			team.TechStack = *upd.TechStack
		}
		if upd.Status != nil {
			team.Status = *upd.Status
		}
		if upd.ProjectRepo != nil {
			team.ProjectRepo = upd.ProjectRepo
		}
		return outcomeUpdate, nil
	})
	if err != nil {
		return nil, err
	}

	return toModelTeam(team), nil
}

func (t *TeamService) DeleteTeam(ctx context.Context, teamID, userID string) *Error {
	logger.FromContext(ctx).Info("deleting team", zap.String("team_id", teamID), zap.String("user_id", userID))

	_, _, err := t.mutate(ctx, teamID, "delete team", func(team *repository.Team) (outcome, *Error) {
		if team.LeaderID != userID {
			return 0, NewError(ErrorCodeForbidden, "only the team leader can delete the team")
		}
		return outcomeDelete, nil
	})
	return err
}

// LeaveTeam removes userID from the members. When the leader leaves the team
// is disbanded, which is reported by the returned flag.
func (t *TeamService) LeaveTeam(ctx context.Context, teamID, userID string) (bool, *Error) {
	logger.FromContext(ctx).Info("leaving team", zap.String("team_id", teamID), zap.String("user_id", userID))

	_, out, err := t.mutate(ctx, teamID, "leave team", func(team *repository.Team) (outcome, *Error) {
		if !contains(team.Members, userID) {
			return 0, NewError(ErrorCodeValidation, "user is not a member of this team")
		}
		if team.LeaderID == userID {
			return outcomeDelete, nil
		}
		team.Members = without(team.Members, userID)
		return outcomeUpdate, nil
	})
	if err != nil {
		return false, err
	}

	return out == outcomeDelete, nil
}

func (t *TeamService) RequestJoin(ctx context.Context, teamID, userID string) *Error {
	logger.FromContext(ctx).Info("requesting to join team", zap.String("team_id", teamID), zap.String("user_id", userID))

	_, _, err := t.mutate(ctx, teamID, "join team", func(team *repository.Team) (outcome, *Error) {
		if contains(team.Members, userID) {
			return 0, NewError(ErrorCodeValidation, "user is already a member of this team")
		}
		if contains(team.JoinRequests, userID) {
			return 0, NewError(ErrorCodeValidation, "join request already pending")
		}
		team.JoinRequests = withID(team.JoinRequests, userID)
		return outcomeUpdate, nil
	})
	return err
}

// ApproveRequest moves targetID from the pending requests to the members in a
// single write.
func (t *TeamService) ApproveRequest(ctx context.Context, teamID, leaderID, targetID string) *Error {
	logger.FromContext(ctx).Info("approving join request",
		zap.String("team_id", teamID),
		zap.String("leader_id", leaderID),
		zap.String("target_user_id", targetID))

	_, _, err := t.mutate(ctx, teamID, "approve join request", func(team *repository.Team) (outcome, *Error) {
		if err := checkPendingRequest(team, leaderID, targetID, "approve"); err != nil {
			return 0, err
		}
		team.JoinRequests = without(team.JoinRequests, targetID)
		team.Members = withID(team.Members, targetID)
		return outcomeUpdate, nil
	})
	return err
}

func (t *TeamService) RejectRequest(ctx context.Context, teamID, leaderID, targetID string) *Error {
	logger.FromContext(ctx).Info("rejecting join request",
		zap.String("team_id", teamID),
		zap.String("leader_id", leaderID),
		zap.String("target_user_id", targetID))

	_, _, err := t.mutate(ctx, teamID, "reject join request", func(team *repository.Team) (outcome, *Error) {
		if err := checkPendingRequest(team, leaderID, targetID, "reject"); err != nil {
			return 0, err
		}
		team.JoinRequests = without(team.JoinRequests, targetID)
		return outcomeUpdate, nil
	})
	return err
}

func (t *TeamService) RemoveMember(ctx context.Context, teamID, leaderID, targetID string) *Error {
	logger.FromContext(ctx).Info("removing team member",
		zap.String("team_id", teamID),
		zap.String("leader_id", leaderID),
		zap.String("target_user_id", targetID))

	_, _, err := t.mutate(ctx, teamID, "remove member", func(team *repository.Team) (outcome, *Error) {
		if team.LeaderID != leaderID {
			return 0, NewError(ErrorCodeForbidden, "only the team leader can remove members")
		}
		if targetID == team.LeaderID {
			return 0, NewError(ErrorCodeValidation, "the team leader cannot be removed, leave the team instead")
		}
		if !contains(team.Members, targetID) {
			return 0, NewError(ErrorCodeValidation, "user is not a member of this team")
		}
		team.Members = without(team.Members, targetID)
		return outcomeUpdate, nil
	})
	return err
}

// checkPendingRequest verifies leadership before pending-ness, so a non-leader
// is refused whether or not the request exists.
func checkPendingRequest(team *repository.Team, leaderID, targetID, action string) *Error {
	if team.LeaderID != leaderID {
		return NewError(ErrorCodeForbidden, fmt.Sprintf("only the team leader can %s join requests", action))
	}
	if !contains(team.JoinRequests, targetID) {
		return NewError(ErrorCodeRequestNotFound, "join request not found")
	}
	return nil
}

type outcome int

const (
	outcomeUpdate outcome = iota + 1
	outcomeDelete
)

type mutation func(team *repository.Team) (outcome, *Error)

// mutate runs one read-modify-write cycle on a team inside a transaction.
// The write is conditional on the version that was read; on a version
// conflict the whole cycle is retried up to maxWriteAttempts times.
func (t *TeamService) mutate(ctx context.Context, teamID, op string, fn mutation) (*repository.Team, outcome, *Error) {
	l := logger.FromContext(ctx).With(zap.String("team_id", teamID), zap.String("op", op))

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		var (
			team *repository.Team
			out  outcome
		)

		err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			team, err = t.teams.Get(txCtx, teamID)
			if errors.Is(err, repository.ErrNotFound) {
				return NewError(ErrorCodeTeamNotFound, "team not found")
			}
			if err != nil {
				return errors.Wrap(err, "get team")
			}

			var serr *Error
			if out, serr = fn(team); serr != nil {
				return serr
			}

			if out == outcomeDelete {
				err = t.teams.Delete(txCtx, team.ID)
				if errors.Is(err, repository.ErrNotFound) {
					return NewError(ErrorCodeTeamNotFound, "team not found")
				}
				return errors.Wrap(err, "delete team")
			}

			return errors.Wrap(t.teams.Update(txCtx, team), "update team")
		})
		if err == nil {
			l.Debug("team mutation applied", zap.Int("attempt", attempt))
			return team, out, nil
		}

		var serr *Error
		if errors.As(err, &serr) {
			l.Warn("team mutation rejected", zap.String("code", string(serr.Code)), zap.String("reason", serr.Message))
			return nil, 0, serr
		}
		if errors.Is(err, repository.ErrConflict) {
			l.Warn("concurrent team update, retrying", zap.Int("attempt", attempt))
			continue
		}

		l.Error("team mutation failed", zap.Error(err))
		return nil, 0, NewError(ErrorCodeUnspecified, errors.Wrapf(err, "failed to %s", op).Error())
	}

	l.Error("team mutation gave up after concurrent updates", zap.Int("attempts", maxWriteAttempts))
	return nil, 0, NewError(ErrorCodeConcurrentUpdate, "team was modified concurrently, please retry")
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithUserRepo(r repository.UserRepository) *TeamService {
	t.users = r
	return t
}

// WithLimits sets the team page size and the number of directory users
// fetched for enrichment. Non-positive values keep the defaults.
func (t *TeamService) WithLimits(teams, directoryUsers int) *TeamService {
	if teams > 0 {
		t.listLimit = teams
	}
	if directoryUsers > 0 {
		t.directoryLimit = directoryUsers
	}
	return t
}

func toModelTeam(team *repository.Team) *model.Team {
	return &model.Team{
		ID:           team.ID,
		HackathonID:  team.HackathonID,
		Name:         team.Name,
		Description:  team.Description,
		LeaderID:     team.LeaderID,
		Members:      nonNilIDs(team.Members),
		JoinRequests: nonNilIDs(team.JoinRequests),
		LookingFor:   nonNilIDs(team.LookingFor),
		TechStack:    nonNilIDs(team.TechStack),
		Status:       team.Status,
		ProjectRepo:  team.ProjectRepo,
		CreatedAt:    timePtr(team.CreatedAt),
		UpdatedAt:    timePtr(team.UpdatedAt),
	}
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func timePtr(ts time.Time) *time.Time {
	if ts.IsZero() {
		return nil
	}
	return &ts
}
