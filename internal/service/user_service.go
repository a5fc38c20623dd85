package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/hackathon-teams/internal/model"
	"github.com/yakoovad/hackathon-teams/internal/repository"
	"github.com/yakoovad/hackathon-teams/pkg/logger"
	"go.uber.org/zap"
)

// UserService exposes the read-only user directory that team views are
// enriched from.
type UserService struct {
	users repository.UserRepository
	limit int
}

func NewUserService() *UserService {
	return &UserService{limit: defaultDirectoryLimit}
}

func (u *UserService) ListUsers(ctx context.Context) ([]*model.User, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("listing users", zap.Int("limit", u.limit))

	users, err := u.users.List(ctx, u.limit)
	if err != nil {
		l.Error("failed to list users", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, errors.Wrap(err, "failed to list users").Error())
	}

	res := make([]*model.User, 0, len(users))
	for _, user := range users {
		res = append(res, &model.User{
			ID:              user.ID,
			Username:        user.Username,
			Bio:             user.Bio,
			AvatarURL:       user.AvatarURL,
			GithubURL:       user.GithubURL,
			Skills:          nonNilIDs(user.Skills),
			XP:              user.XP,
			ReputationScore: user.ReputationScore,
			AccountID:       user.AccountID,
		})
	}
	return res, nil
}

func (u *UserService) WithUserRepo(userRepo repository.UserRepository) *UserService {
	u.users = userRepo
	return u
}

func (u *UserService) WithLimit(limit int) *UserService {
	if limit > 0 {
		u.limit = limit
	}
	return u
}
