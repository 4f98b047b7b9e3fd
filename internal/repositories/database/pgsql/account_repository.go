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

const accountColumns = `account_id, code, name, account_type, parent_account_id, related_bank_account_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.ChartOfAccount, error) {
	var m models.ChartOfAccount
	err := row.Scan(
		&m.AccountID, &m.Code, &m.Name, &m.AccountType, &m.ParentAccountID, &m.RelatedBankAccountID, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new chart-of-accounts node.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO chart_of_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Code, m.Name, m.AccountType, m.ParentAccountID, m.RelatedBankAccountID, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("code", "account code already exists")
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE chart_of_accounts
		SET name = $2, parent_account_id = $3, related_bank_account_id = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;`
	tag, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Name, m.ParentAccountID, m.RelatedBankAccountID, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	m, err := scanAccount(r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE account_id = $1;`, accountID))
	if err != nil {
		return nil, notFound(err, "account "+accountID)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	m, err := scanAccount(r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE code = $1;`, code))
	if err != nil {
		return nil, notFound(err, "account by code "+code)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.ChartOfAccount, error) {
	var where []string
	var args []any
	if filter.AccountType != "" {
		args = append(args, string(filter.AccountType))
		where = append(where, fmt.Sprintf("account_type = $%d", len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active")
	}
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY code ASC;`

	return queryAccounts(ctx, r.Pool, query, args...)
}

func queryAccounts(ctx context.Context, q querier, query string, args ...any) ([]domain.ChartOfAccount, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var out []models.ChartOfAccount
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return mapping.ToDomainAccountSlice(out), nil
}
