package repository

import (
	"context"
	"encoding/json"

	"loyalty-core/internal/infra"
	"loyalty-core/internal/infra/db"
	"loyalty-core/internal/pkg/pgconv"
	"loyalty-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type PersonRepository struct {
	db db.DBTX
}

func NewPersonRepository(dbtx db.DBTX) *PersonRepository {
	return &PersonRepository{db: dbtx}
}

func (r *PersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.PersonSnapshot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, cpf, name
		FROM person
		WHERE id = $1`, id)
	return r.scan(row)
}

func (r *PersonRepository) FindByCPF(ctx context.Context, cpf string) (*shared.PersonSnapshot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, cpf, name
		FROM person
		WHERE cpf = $1`, cpf)
	return r.scan(row)
}

// ListIDsForSegment sizes and selects a bulk-issue audience. The segment is
// an opaque attribute filter matched against the person's attributes column;
// empty means everyone.
func (r *PersonRepository) ListIDsForSegment(ctx context.Context, segment json.RawMessage, limit int) ([]uuid.UUID, error) {
	filter := segment
	if len(filter) == 0 {
		filter = json.RawMessage(`{}`)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id
		FROM person
		WHERE attributes @> $1::jsonb
		ORDER BY created_at
		LIMIT $2`,
		filter, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list segment audience", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan person id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate segment audience", err)
	}
	return ids, nil
}

func (r *PersonRepository) scan(row interface{ Scan(dest ...any) error }) (*shared.PersonSnapshot, error) {
	var snapshot shared.PersonSnapshot
	err := row.Scan(&snapshot.ID, &snapshot.CPF, &snapshot.Name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("person not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan person", err)
	}
	return &snapshot, nil
}
