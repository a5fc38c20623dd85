package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yakoovad/hackathon-teams/internal/model"
	"github.com/yakoovad/hackathon-teams/internal/repository"
)

func TestUserService_ListUsers(t *testing.T) {
	bio := "gopher"

	tests := []struct {
		name          string
		limit         int
		setupMocks    func(*MockUserRepository)
		expectedError bool
		errorCode     ErrorCode
		expectedUsers []*model.User
	}{
		{
			name:  "success",
			limit: 2,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("List", mock.Anything, 2).Return([]*repository.User{
					{ID: "u1", Username: "alice", Bio: &bio, Skills: []string{"go"}, XP: 10},
					{ID: "u2", Username: "bob"},
				}, nil)
			},
			expectedUsers: []*model.User{
				{ID: "u1", Username: "alice", Bio: &bio, Skills: []string{"go"}, XP: 10},
				{ID: "u2", Username: "bob", Skills: []string{}},
			},
		},
		{
			name:  "success: non-positive limit keeps default",
			limit: 0,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("List", mock.Anything, defaultDirectoryLimit).Return([]*repository.User{}, nil)
			},
			expectedUsers: []*model.User{},
		},
		{
			name:  "store error",
			limit: 5,
			setupMocks: func(ur *MockUserRepository) {
				ur.On("List", mock.Anything, 5).Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ur := new(MockUserRepository)
			tt.setupMocks(ur)

			users, err := NewUserService().WithUserRepo(ur).WithLimit(tt.limit).ListUsers(context.Background())

			if tt.expectedError {
				assert.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, users)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tt.expectedUsers, users)
			}

			ur.AssertExpectations(t)
		})
	}
}
