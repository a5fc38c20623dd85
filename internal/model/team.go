package model

import "time"

type TeamStatus string

const (
	TeamStatusOpen   TeamStatus = "open"
	TeamStatusClosed TeamStatus = "closed"
	TeamStatusFull   TeamStatus = "full"
)

type Team struct {
	ID           string     `json:"id"`
	HackathonID  string     `json:"hackathon_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	LeaderID     string     `json:"leader_id"`
	Members      []string   `json:"members"`
	JoinRequests []string   `json:"join_requests"`
	LookingFor   []string   `json:"looking_for"`
	TechStack    []string   `json:"tech_stack"`
	Status       TeamStatus `json:"status"`
	ProjectRepo  *string    `json:"project_repo,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type TeamCreate struct {
	HackathonID string     `json:"hackathon_id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description" validate:"max=150"`
	LeaderID    string     `json:"leader_id" validate:"required"`
	Members     []string   `json:"members" validate:"dive,required"`
	LookingFor  []string   `json:"looking_for"`
	TechStack   []string   `json:"tech_stack"`
	Status      TeamStatus `json:"status" validate:"omitempty,oneof=open closed full"`
	ProjectRepo *string    `json:"project_repo"`
}

// TeamUpdate is a partial update; nil fields are left untouched.
type TeamUpdate struct {
	Name        *string     `json:"name" validate:"omitempty,min=1"`
	Description *string     `json:"description" validate:"omitempty,max=150"`
	LookingFor  *[]string   `json:"looking_for"`
	TechStack   *[]string   `json:"tech_stack"`
	Status      *TeamStatus `json:"status" validate:"omitempty,oneof=open closed full"`
	ProjectRepo *string     `json:"project_repo"`
}

// TeamView is a team with member and join-request ids resolved to display objects.
type TeamView struct {
	ID           string        `json:"id"`
	HackathonID  string        `json:"hackathon_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	LeaderID     string        `json:"leader_id"`
	Members      []*MemberView `json:"members"`
	JoinRequests []*MemberView `json:"join_requests"`
	LookingFor   []string      `json:"looking_for"`
	TechStack    []string      `json:"tech_stack"`
	Status       TeamStatus    `json:"status"`
	ProjectRepo  *string       `json:"project_repo,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"`
	UpdatedAt    *time.Time    `json:"updated_at,omitempty"`
}

type MemberView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type TeamList struct {
	Total     int         `json:"total"`
	Documents []*TeamView `json:"documents"`
}

type TeamAction struct {
	TeamID string `json:"team_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

type TeamRequestAction struct {
	TeamID       string `json:"team_id" validate:"required"`
	LeaderID     string `json:"leader_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
}
