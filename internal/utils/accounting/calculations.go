package accounting

import (
	"fmt"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Posting is the debit/credit pair and signed balance delta for one owner.
type Posting struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
	Delta  decimal.Decimal
}

// PostingFor applies the owner polarity rule.
//
//	MAIN/SYSTEM, DEPOSIT     -> debit  = amount, balance += amount
//	MAIN/SYSTEM, WITHDRAWAL  -> credit = amount, balance -= amount
//	others,      DEPOSIT     -> credit = amount, balance += amount
//	others,      WITHDRAWAL  -> debit  = amount, balance -= amount
func PostingFor(ownerType domain.OwnerType, method domain.Method, amount decimal.Decimal) (Posting, error) {
	if !amount.IsPositive() {
		return Posting{}, fmt.Errorf("posting amount must be positive, got %s", amount.String())
	}

	assetLike := ownerType.IsAssetLike()
	switch method {
	case domain.MethodDeposit:
		if assetLike {
			return Posting{Debit: amount, Credit: decimal.Zero, Delta: amount}, nil
		}
		return Posting{Debit: decimal.Zero, Credit: amount, Delta: amount}, nil
	case domain.MethodWithdrawal:
		if assetLike {
			return Posting{Debit: decimal.Zero, Credit: amount, Delta: amount.Neg()}, nil
		}
		return Posting{Debit: amount, Credit: decimal.Zero, Delta: amount.Neg()}, nil
	default:
		return Posting{}, fmt.Errorf("unknown posting method '%s'", method)
	}
}

// SignedDelta converts a persisted debit/credit pair back into the balance change for the owner.
func SignedDelta(ownerType domain.OwnerType, debit, credit decimal.Decimal) decimal.Decimal {
	if ownerType.IsAssetLike() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// DepositWithdrawal splits an entry into statement columns: money that increased
// the owner's balance is a deposit, money that decreased it a withdrawal.
func DepositWithdrawal(ownerType domain.OwnerType, debit, credit decimal.Decimal) (deposit, withdrawal decimal.Decimal) {
	if ownerType.IsAssetLike() {
		return debit, credit
	}
	return credit, debit
}

// OpeningAmount is the opening balance carried by an opening entry: its debit for
// asset-like owners, its credit for everyone else.
func OpeningAmount(ownerType domain.OwnerType, entry domain.OwnerLedgerEntry) decimal.Decimal {
	if ownerType.IsAssetLike() {
		return entry.Debit
	}
	return entry.Credit
}

// ValidateDoubleEntry checks that general-ledger entries balance and cover amount.
func ValidateDoubleEntry(entries []domain.GeneralLedgerEntry, amount decimal.Decimal) error {
	if len(entries) < 2 {
		return fmt.Errorf("double entry requires at least two lines, got %d", len(entries))
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("general ledger line for account %s has a negative side", e.AccountID)
		}
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("general ledger does not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	if !debits.Equal(amount) {
		return fmt.Errorf("general ledger total %s does not match transaction amount %s", debits.String(), amount.String())
	}
	return nil
}
