package service

import (
	"context"

	"github.com/yakoovad/hackathon-teams/internal/model"
	"github.com/yakoovad/hackathon-teams/internal/repository"
	"github.com/yakoovad/hackathon-teams/pkg/logger"
	"go.uber.org/zap"
)

const unknownUserName = "Unknown User"

// nameLookup maps user ids to display names.
type nameLookup map[string]string

func (n nameLookup) name(userID string) string {
	if name, ok := n[userID]; ok && name != "" {
		return name
	}
	return unknownUserName
}

func (n nameLookup) views(ids []string) []*model.MemberView {
	res := make([]*model.MemberView, 0, len(ids))
	for _, id := range ids {
		res = append(res, &model.MemberView{
			UserID: id,
			Name:   n.name(id),
			Avatar: "",
		})
	}
	return res
}

// directoryNames is a non-fatal sub-operation: a directory failure is logged
// and yields an empty lookup, so every name resolves to unknownUserName.
func (t *TeamService) directoryNames(ctx context.Context) nameLookup {
	names := nameLookup{}
	if t.users == nil {
		return names
	}

	users, err := t.users.List(ctx, t.directoryLimit)
	if err != nil {
		logger.FromContext(ctx).Warn("user directory unavailable, names fall back to placeholder", zap.Error(err))
		return names
	}

	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names
}

func toTeamView(team *repository.Team, names nameLookup) *model.TeamView {
	return &model.TeamView{
		ID:           team.ID,
		HackathonID:  team.HackathonID,
		Name:         team.Name,
		Description:  team.Description,
		LeaderID:     team.LeaderID,
		Members:      names.views(team.Members),
		JoinRequests: names.views(team.JoinRequests),
		LookingFor:   nonNilIDs(team.LookingFor),
		TechStack:    nonNilIDs(team.TechStack),
		Status:       team.Status,
		ProjectRepo:  team.ProjectRepo,
		CreatedAt:    timePtr(team.CreatedAt),
		UpdatedAt:    timePtr(team.UpdatedAt),
	}
}
