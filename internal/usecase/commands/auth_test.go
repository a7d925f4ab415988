//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"loyalty-core/internal/pkg/jwt"
	"loyalty-core/internal/pkg/password"
	"loyalty-core/internal/usecase/commands"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthCommandsTestSuite struct {
	suite.Suite
	users *MockUserRepository
	sut   commands.AuthCommands

	userID uuid.UUID
	hash   string
}

func TestAuthCommandsTestSuite(t *testing.T) {
	suite.Run(t, new(AuthCommandsTestSuite))
}

func (s *AuthCommandsTestSuite) SetupTest() {
	s.users = new(MockUserRepository)
	tx := &stubTx{users: s.users}
	jwtService := jwt.NewService("test-secret-key", time.Hour)
	s.sut = commands.NewAuthCommands(&stubUoW{tx: tx}, jwtService)

	s.userID = uuid.New()
	hash, err := password.HashPassword("correct-horse")
	require.NoError(s.T(), err)
	s.hash = hash
}

func (s *AuthCommandsTestSuite) snapshot() *shared.UserSnapshot {
	return &shared.UserSnapshot{
		ID:           s.userID,
		Email:        "operator@example.com",
		PasswordHash: s.hash,
		Role:         "operator",
		IsActive:     true,
	}
}

func (s *AuthCommandsTestSuite) TestLogin() {
	s.Run("valid credentials produce a token", func() {
		s.SetupTest()
		s.users.On("FindByEmail", mock.Anything, "operator@example.com").Return(s.snapshot(), nil)
		s.users.On("UpdateLastLogin", mock.Anything, s.userID).Return(nil)

		result, err := s.sut.Login(context.Background(), "operator@example.com", "correct-horse")
		require.NoError(s.T(), err)

		assert.Equal(s.T(), s.userID, result.UserID)
		assert.Equal(s.T(), "operator", result.Role)
		assert.NotEmpty(s.T(), result.AccessToken)
	})

	s.Run("wrong password", func() {
		s.SetupTest()
		s.users.On("FindByEmail", mock.Anything, "operator@example.com").Return(s.snapshot(), nil)

		_, err := s.sut.Login(context.Background(), "operator@example.com", "wrong-password")
		assert.ErrorIs(s.T(), err, commands.ErrInvalidCredentials)
	})

	s.Run("unknown email is indistinguishable from a wrong password", func() {
		s.SetupTest()
		s.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, notFoundErr())

		_, err := s.sut.Login(context.Background(), "ghost@example.com", "correct-horse")
		assert.ErrorIs(s.T(), err, commands.ErrInvalidCredentials)
	})

	s.Run("inactive user", func() {
		s.SetupTest()
		snapshot := s.snapshot()
		snapshot.IsActive = false
		s.users.On("FindByEmail", mock.Anything, "operator@example.com").Return(snapshot, nil)

		_, err := s.sut.Login(context.Background(), "operator@example.com", "correct-horse")
		assert.ErrorIs(s.T(), err, commands.ErrUserInactive)
	})

	s.Run("malformed email", func() {
		s.SetupTest()
		_, err := s.sut.Login(context.Background(), "not-an-email", "correct-horse")
		assert.ErrorIs(s.T(), err, commands.ErrAuthenticationFailed)
	})

	s.Run("login survives a failed last-login stamp", func() {
		s.SetupTest()
		s.users.On("FindByEmail", mock.Anything, "operator@example.com").Return(s.snapshot(), nil)
		s.users.On("UpdateLastLogin", mock.Anything, s.userID).Return(assert.AnError)

		result, err := s.sut.Login(context.Background(), "operator@example.com", "correct-horse")
		require.NoError(s.T(), err)
		assert.NotEmpty(s.T(), result.AccessToken)
	})
}
