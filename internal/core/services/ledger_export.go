package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const statementSheet = "Statement"

var statementHeadings = []any{
	"Date", "Voucher No", "Voucher Date", "Category", "Particulars", "Deposit", "Withdrawal", "Balance",
}

func (s *ledgerService) ExportOwnerLedger(ctx context.Context, ownerID string, sort domain.SortOrder, dateRange domain.DateRange) ([]byte, error) {
	stmt, err := s.GetOwnerLedger(ctx, ownerID, sort, dateRange)
	if err != nil {
		return nil, err
	}

	content, err := renderOwnerStatement(stmt)
	if err != nil {
		s.LogError(ctx, err, "Failed to render statement workbook", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to render statement workbook: %w", err)
	}
	return content, nil
}

// renderOwnerStatement writes a single-sheet workbook: owner header, opening row,
// one row per line in display order, then totals and closing balance.
func renderOwnerStatement(stmt *domain.OwnerStatement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, err
	}

	row := 1
	setRow := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(statementSheet, cell, &values)
	}

	if err := setRow("Owner", stmt.Owner.Code, stmt.Owner.Name, string(stmt.Owner.OwnerType)); err != nil {
		return nil, err
	}
	if err := setRow("Period", formatBound(stmt.Range.From), formatBound(stmt.Range.To)); err != nil {
		return nil, err
	}
	row++
	if err := setRow(statementHeadings...); err != nil {
		return nil, err
	}
	if err := setRow("", "", "", "", "Opening Balance", "", "", stmt.OpeningBalance.InexactFloat64()); err != nil {
		return nil, err
	}

	for _, l := range stmt.Lines {
		e := l.Entry
		if err := setRow(
			e.CreatedAt.Format(time.DateOnly),
			e.VoucherNo,
			formatBound(e.VoucherDate),
			string(e.Category),
			e.Particulars,
			l.Deposit.InexactFloat64(),
			l.Withdrawal.InexactFloat64(),
			e.RunningBalance.InexactFloat64(),
		); err != nil {
			return nil, err
		}
	}

	if err := setRow("", "", "", "", "Total", stmt.TotalDeposit.InexactFloat64(), stmt.TotalWithdraw.InexactFloat64(), ""); err != nil {
		return nil, err
	}
	if err := setRow("", "", "", "", "Closing Balance", "", "", stmt.ClosingBalance.InexactFloat64()); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
