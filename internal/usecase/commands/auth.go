package commands

import (
	"context"
	"log/slog"

	"loyalty-core/internal/domain/user"
	"loyalty-core/internal/pkg/errs"
	"loyalty-core/internal/pkg/jwt"
	"loyalty-core/internal/pkg/password"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	Role        string
	PersonID    *uuid.UUID
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, jwtService: jwtService}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	addr, err := user.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	pass, err := user.NewPassword(rawPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	var snapshot *shared.UserSnapshot
	err = a.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		snapshot, err = tx.Users().FindByEmail(ctx, addr.Value())
		return err
	})
	if err != nil || snapshot == nil {
		// Same error as a password mismatch to prevent user enumeration.
		return nil, ErrInvalidCredentials
	}
	if !snapshot.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(snapshot.PasswordHash, pass.Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(snapshot.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	token, err := a.jwtService.GenerateToken(snapshot.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	if err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, snapshot.ID)
	}); err != nil {
		// Login itself succeeded; the stamp is best effort.
		slog.Warn("failed to update last login", "user_id", snapshot.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      snapshot.ID,
		Role:        role.String(),
		PersonID:    snapshot.PersonID,
		AccessToken: token,
	}, nil
}
