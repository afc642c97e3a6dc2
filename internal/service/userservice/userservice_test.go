package userservice

import (
	"context"
	"errors"
	"testing"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

const userID = "6f1c1c1e-8a8e-4c39-9d4b-0c1f5b1a2e11"

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo)
	return service, repo
}

func TestCreateUser(t *testing.T) {
	service, repo := NewMock(t)

	tests := []struct {
		name          string
		email         string
		prepareMock   func()
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name:  "User created with zero balance",
			email: "alice@example.com",
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), &domain.User{Email: "alice@example.com"}).
					DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
						u.ID = userID
						return u, nil
					})
			},
			expectedUser: &domain.User{ID: userID, Email: "alice@example.com", Balance: 0},
		},
		{
			name:  "Email already registered",
			email: "alice@example.com",
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrEmailTaken)
			},
			expectedError: domain.ErrEmailTaken,
		},
		{
			name:  "Repository error",
			email: "alice@example.com",
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			user, err := service.CreateUser(context.Background(), tt.email)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	service, repo := NewMock(t)

	t.Run("User found", func(t *testing.T) {
		expected := &domain.User{ID: userID, Email: "alice@example.com", Balance: 1000}
		repo.EXPECT().FindByID(gomock.Any(), userID).Return(expected, nil)

		user, err := service.GetUser(context.Background(), userID)
		assert.NoError(t, err)
		assert.Equal(t, expected, user)
	})

	t.Run("User not found", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), userID).Return(nil, domain.ErrUserNotFound)

		user, err := service.GetUser(context.Background(), userID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, user)
	})
}

func TestUpdateBalance(t *testing.T) {
	service, repo := NewMock(t)

	tests := []struct {
		name          string
		balance       int64
		prepareMock   func()
		expectedError error
	}{
		{
			name:    "Positive balance",
			balance: 1000,
			prepareMock: func() {
				repo.EXPECT().UpdateBalance(gomock.Any(), userID, int64(1000)).
					Return(&domain.User{ID: userID, Balance: 1000}, nil)
			},
		},
		{
			name:    "Negative balance is accepted",
			balance: -50,
			prepareMock: func() {
				repo.EXPECT().UpdateBalance(gomock.Any(), userID, int64(-50)).
					Return(&domain.User{ID: userID, Balance: -50}, nil)
			},
		},
		{
			name:    "User not found",
			balance: 10,
			prepareMock: func() {
				repo.EXPECT().UpdateBalance(gomock.Any(), userID, int64(10)).Return(nil, domain.ErrUserNotFound)
			},
			expectedError: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			user, err := service.UpdateBalance(context.Background(), userID, tt.balance)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.balance, user.Balance)
			}
		})
	}
}
