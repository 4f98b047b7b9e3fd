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

const accountColumns = `account_id, code, name, account_type, parent_account_id, related_bank_account_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type SQLiteAccountRepository struct {
	BaseRepository
}

func newSQLiteAccountRepository(db *sql.DB) portsrepo.AccountRepositoryFacade {
	return &SQLiteAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AccountRepositoryFacade = (*SQLiteAccountRepository)(nil)

func scanAccount(row scanner) (models.ChartOfAccount, error) {
	var m models.ChartOfAccount
	err := row.Scan(
		&m.AccountID, &m.Code, &m.Name, &m.AccountType, &m.ParentAccountID, &m.RelatedBankAccountID, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *SQLiteAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	_, err := r.DB.ExecContext(ctx, `INSERT INTO chart_of_accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		m.AccountID, m.Code, m.Name, string(m.AccountType), m.ParentAccountID, m.RelatedBankAccountID, m.IsActive,
		ts(m.CreatedAt), m.CreatedBy, ts(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("code", "account code already exists")
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *SQLiteAccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	m := mapping.ToModelAccount(account)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE chart_of_accounts
		SET name = ?, parent_account_id = ?, related_bank_account_id = ?, is_active = ?, last_updated_at = ?, last_updated_by = ?
		WHERE account_id = ?;`,
		m.Name, m.ParentAccountID, m.RelatedBankAccountID, m.IsActive, ts(m.LastUpdatedAt), m.LastUpdatedBy, m.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	m, err := scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE account_id = ?;`, accountID))
	if err != nil {
		return nil, notFound(err, "account "+accountID)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *SQLiteAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	m, err := scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE code = ?;`, code))
	if err != nil {
		return nil, notFound(err, "account by code "+code)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *SQLiteAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.ChartOfAccount, error) {
	var where []string
	var args []any
	if filter.AccountType != "" {
		where = append(where, "account_type = ?")
		args = append(args, string(filter.AccountType))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = 1")
	}
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return queryAccounts(ctx, r.DB, query+` ORDER BY code ASC;`, args...)
}

func queryAccounts(ctx context.Context, q querier, query string, args ...any) ([]domain.ChartOfAccount, error) {
	rows, err := q.QueryContext(ctx, query, args...)
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
