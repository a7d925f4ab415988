package repository

import (
	"context"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*shared.UserSnapshot, error) {
	var (
		snapshot shared.UserSnapshot
		personID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, person_id, is_active
		FROM app_user
		WHERE email = $1`, email,
	).Scan(&snapshot.ID, &snapshot.Email, &snapshot.PasswordHash, &snapshot.Role, &personID, &snapshot.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	snapshot.PersonID = pgconv.UUIDPtrFromPgtype(personID)
	return &snapshot, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE app_user
		SET last_login_at = now()
		WHERE id = $1`, userID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
