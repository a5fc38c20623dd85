package model

type User struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Bio             *string  `json:"bio,omitempty"`
	AvatarURL       *string  `json:"avatar_url,omitempty"`
	GithubURL       *string  `json:"github_url,omitempty"`
	Skills          []string `json:"skills"`
	XP              int      `json:"xp"`
	ReputationScore float64  `json:"reputation_score"`
	AccountID       string   `json:"account_id"`
}
