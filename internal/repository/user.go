package repository

import "context"

type User struct {
	ID              string   `db:"id" bson:"_id"`
	Username        string   `db:"username" bson:"username"`
	Bio             *string  `db:"bio" bson:"bio,omitempty"`
	AvatarURL       *string  `db:"avatar_url" bson:"avatar_url,omitempty"`
	GithubURL       *string  `db:"github_url" bson:"github_url,omitempty"`
	Skills          []string `db:"skills" bson:"skills"`
	XP              int      `db:"xp" bson:"xp"`
	ReputationScore float64  `db:"reputation_score" bson:"reputation_score"`
	AccountID       string   `db:"account_id" bson:"account_id"`
}

// UserRepository is the read side of the user directory.
type UserRepository interface {
	List(ctx context.Context, limit int) ([]*User, error)
}
