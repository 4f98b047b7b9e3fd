package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/models"
	"github.com/SscSPs/trust_ledger/internal/utils/mapping"
)

const ownerColumns = `owner_id, code, owner_type, name, description, email, phone, address, status, is_system, account_id,
	created_at, created_by, last_updated_at, last_updated_by`

const unitColumns = `unit_id, owner_id, code, name, created_at, created_by, last_updated_at, last_updated_by`

type SQLiteOwnerRepository struct {
	BaseRepository
}

func newSQLiteOwnerRepository(db *sql.DB) portsrepo.OwnerRepositoryFacade {
	return &SQLiteOwnerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.OwnerRepositoryFacade = (*SQLiteOwnerRepository)(nil)

func scanOwner(row scanner) (models.Owner, error) {
	var m models.Owner
	err := row.Scan(
		&m.OwnerID, &m.Code, &m.OwnerType, &m.Name, &m.Description, &m.Email, &m.Phone, &m.Address,
		&m.Status, &m.IsSystem, &m.AccountID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanUnit(row scanner) (models.Unit, error) {
	var m models.Unit
	err := row.Scan(&m.UnitID, &m.OwnerID, &m.Code, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *SQLiteOwnerRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	m := mapping.ToModelOwner(owner)
	_, err := r.DB.ExecContext(ctx, `INSERT INTO owners (`+ownerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		m.OwnerID, m.Code, m.OwnerType, m.Name, m.Description, m.Email, m.Phone, m.Address,
		m.Status, m.IsSystem, m.AccountID,
		ts(m.CreatedAt), m.CreatedBy, ts(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("code", "owner code already exists")
		}
		return fmt.Errorf("failed to save owner %s: %w", m.OwnerID, err)
	}
	return nil
}

func (r *SQLiteOwnerRepository) UpdateOwner(ctx context.Context, owner domain.Owner) error {
	m := mapping.ToModelOwner(owner)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE owners
		SET name = ?, description = ?, email = ?, phone = ?, address = ?, status = ?, account_id = ?,
		    last_updated_at = ?, last_updated_by = ?
		WHERE owner_id = ?;`,
		m.Name, m.Description, m.Email, m.Phone, m.Address, m.Status, m.AccountID,
		ts(m.LastUpdatedAt), m.LastUpdatedBy, m.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update owner %s: %w", m.OwnerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SQLiteOwnerRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	m, err := scanOwner(r.DB.QueryRowContext(ctx, `SELECT `+ownerColumns+` FROM owners WHERE owner_id = ?;`, ownerID))
	if err != nil {
		return nil, notFound(err, "owner "+ownerID)
	}
	d := mapping.ToDomainOwner(m)
	return &d, nil
}

func (r *SQLiteOwnerRepository) FindOwnerByCode(ctx context.Context, code string) (*domain.Owner, error) {
	m, err := scanOwner(r.DB.QueryRowContext(ctx, `SELECT `+ownerColumns+` FROM owners WHERE code = ?;`, code))
	if err != nil {
		return nil, notFound(err, "owner by code "+code)
	}
	d := mapping.ToDomainOwner(m)
	return &d, nil
}

func (r *SQLiteOwnerRepository) ListOwners(ctx context.Context, filter portsrepo.OwnerFilter) ([]domain.Owner, error) {
	var where []string
	var args []any
	if filter.OwnerType != "" {
		where = append(where, "owner_type = ?")
		args = append(args, string(filter.OwnerType))
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + ownerColumns + ` FROM owners`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return queryOwners(ctx, r.DB, query+` ORDER BY code ASC;`, args...)
}

func queryOwners(ctx context.Context, q querier, query string, args ...any) ([]domain.Owner, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query owners: %w", err)
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

func (r *SQLiteOwnerRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	_, err := r.DB.ExecContext(ctx, `INSERT INTO units (`+unitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		m.UnitID, m.OwnerID, m.Code, m.Name, ts(m.CreatedAt), m.CreatedBy, ts(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("code", "unit code already exists for this owner")
		}
		return fmt.Errorf("failed to save unit %s: %w", m.UnitID, err)
	}
	return nil
}

func (r *SQLiteOwnerRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return findUnit(ctx, r.DB, unitID)
}

func findUnit(ctx context.Context, q querier, unitID string) (*domain.Unit, error) {
	m, err := scanUnit(q.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE unit_id = ?;`, unitID))
	if err != nil {
		return nil, notFound(err, "unit "+unitID)
	}
	d := mapping.ToDomainUnit(m)
	return &d, nil
}

func (r *SQLiteOwnerRepository) ListUnitsByOwner(ctx context.Context, ownerID string) ([]domain.Unit, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+unitColumns+` FROM units WHERE owner_id = ? ORDER BY code ASC;`, ownerID)
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
