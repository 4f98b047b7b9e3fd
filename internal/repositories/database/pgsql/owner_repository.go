package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/models"
	"github.com/SscSPs/trust_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ownerColumns = `owner_id, code, owner_type, name, description, email, phone, address, status, is_system, account_id,
	created_at, created_by, last_updated_at, last_updated_by`

const unitColumns = `unit_id, owner_id, code, name, created_at, created_by, last_updated_at, last_updated_by`

type PgxOwnerRepository struct {
	BaseRepository
}

// newPgxOwnerRepository creates a new repository for owners and units.
func newPgxOwnerRepository(pool *pgxpool.Pool) portsrepo.OwnerRepositoryFacade {
	return &PgxOwnerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OwnerRepositoryFacade = (*PgxOwnerRepository)(nil)

func scanOwner(row pgx.Row) (models.Owner, error) {
	var m models.Owner
	err := row.Scan(
		&m.OwnerID, &m.Code, &m.OwnerType, &m.Name, &m.Description, &m.Email, &m.Phone, &m.Address,
		&m.Status, &m.IsSystem, &m.AccountID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanUnit(row pgx.Row) (models.Unit, error) {
	var m models.Unit
	err := row.Scan(&m.UnitID, &m.OwnerID, &m.Code, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxOwnerRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	m := mapping.ToModelOwner(owner)
	query := `INSERT INTO owners (` + ownerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.Pool.Exec(ctx, query,
		m.OwnerID, m.Code, m.OwnerType, m.Name, m.Description, m.Email, m.Phone, m.Address,
		m.Status, m.IsSystem, m.AccountID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("code", "owner code already exists")
		}
		return fmt.Errorf("failed to save owner %s: %w", m.OwnerID, err)
	}
	return nil
}

func (r *PgxOwnerRepository) UpdateOwner(ctx context.Context, owner domain.Owner) error {
	m := mapping.ToModelOwner(owner)
	query := `
		UPDATE owners
		SET name = $2, description = $3, email = $4, phone = $5, address = $6, status = $7, account_id = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE owner_id = $1;`
	tag, err := r.Pool.Exec(ctx, query,
		m.OwnerID, m.Name, m.Description, m.Email, m.Phone, m.Address, m.Status, m.AccountID,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update owner %s: %w", m.OwnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOwnerRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	m, err := scanOwner(r.Pool.QueryRow(ctx, `SELECT `+ownerColumns+` FROM owners WHERE owner_id = $1;`, ownerID))
	if err != nil {
		return nil, notFound(err, "owner "+ownerID)
	}
	d := mapping.ToDomainOwner(m)
	return &d, nil
}

func (r *PgxOwnerRepository) FindOwnerByCode(ctx context.Context, code string) (*domain.Owner, error) {
	m, err := scanOwner(r.Pool.QueryRow(ctx, `SELECT `+ownerColumns+` FROM owners WHERE code = $1;`, code))
	if err != nil {
		return nil, notFound(err, "owner by code "+code)
	}
	d := mapping.ToDomainOwner(m)
	return &d, nil
}

func (r *PgxOwnerRepository) ListOwners(ctx context.Context, filter portsrepo.OwnerFilter) ([]domain.Owner, error) {
	var where []string
	var args []any
	if filter.OwnerType != "" {
		args = append(args, string(filter.OwnerType))
		where = append(where, fmt.Sprintf("owner_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + ownerColumns + ` FROM owners`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY code ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var out []models.Owner
	for rows.Next() {
		m, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owners: %w", err)
	}
	return mapping.ToDomainOwnerSlice(out), nil
}

func (r *PgxOwnerRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	_, err := r.Pool.Exec(ctx, `INSERT INTO units (`+unitColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		m.UnitID, m.OwnerID, m.Code, m.Name, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("code", "unit code already exists for this owner")
		}
		return fmt.Errorf("failed to save unit %s: %w", m.UnitID, err)
	}
	return nil
}

func (r *PgxOwnerRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return findUnit(ctx, r.Pool, unitID)
}

func findUnit(ctx context.Context, q querier, unitID string) (*domain.Unit, error) {
	m, err := scanUnit(q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE unit_id = $1;`, unitID))
	if err != nil {
		return nil, notFound(err, "unit "+unitID)
	}
	d := mapping.ToDomainUnit(m)
	return &d, nil
}

func (r *PgxOwnerRepository) ListUnitsByOwner(ctx context.Context, ownerID string) ([]domain.Unit, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+unitColumns+` FROM units WHERE owner_id = $1 ORDER BY code ASC;`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var out []domain.Unit
	for rows.Next() {
		m, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		out = append(out, mapping.ToDomainUnit(m))
	}
	return out, rows.Err()
}
