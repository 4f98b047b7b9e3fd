package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategory_ResolveMethod(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		explicit domain.Method
		want     domain.Method
		wantOK   bool
	}{
		{name: "deposit", category: domain.CategoryDeposit, want: domain.MethodDeposit, wantOK: true},
		{name: "withdrawal", category: domain.CategoryWithdrawal, want: domain.MethodWithdrawal, wantOK: true},
		{name: "opening increases", category: domain.CategoryOpening, want: domain.MethodDeposit, wantOK: true},
		{name: "reversal decreases", category: domain.CategoryReversal, want: domain.MethodWithdrawal, wantOK: true},
		{name: "explicit method ignored for deposit", category: domain.CategoryDeposit, explicit: domain.MethodWithdrawal, want: domain.MethodDeposit, wantOK: true},
		{name: "adjustment takes explicit method", category: domain.CategoryAdjustment, explicit: domain.MethodWithdrawal, want: domain.MethodWithdrawal, wantOK: true},
		{name: "adjustment without method", category: domain.CategoryAdjustment, wantOK: false},
		{name: "unknown category", category: domain.Category("TRANSFER"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.category.ResolveMethod(tt.explicit)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCategory_AllowsSystemOwner(t *testing.T) {
	assert.False(t, domain.CategoryDeposit.AllowsSystemOwner())
	assert.False(t, domain.CategoryWithdrawal.AllowsSystemOwner())
	assert.True(t, domain.CategoryOpening.AllowsSystemOwner())
	assert.True(t, domain.CategoryAdjustment.AllowsSystemOwner())
	assert.True(t, domain.CategoryReversal.AllowsSystemOwner())
}

func TestNormalizeVoucherNo(t *testing.T) {
	assert.Equal(t, "RV-0001", domain.NormalizeVoucherNo("  rv-0001 "))
	assert.Equal(t, "", domain.NormalizeVoucherNo("   "))
}

func TestOwnerLedgerEntry_IsOpening(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.OwnerLedgerEntry
		want  bool
	}{
		{name: "opening category", entry: domain.OwnerLedgerEntry{Category: domain.CategoryOpening}, want: true},
		{name: "voucher prefix", entry: domain.OwnerLedgerEntry{Category: domain.CategoryDeposit, VoucherNo: "OB-2024-01"}, want: true},
		{name: "particulars wording", entry: domain.OwnerLedgerEntry{Category: domain.CategoryDeposit, Particulars: "Opening Balance brought forward"}, want: true},
		{name: "system counterparty with opening wording", entry: domain.OwnerLedgerEntry{Category: domain.CategoryAdjustment, Particulars: "Opening funds", CounterpartyType: domain.OwnerSystem}, want: true},
		{name: "opening wording without system counterparty", entry: domain.OwnerLedgerEntry{Category: domain.CategoryDeposit, Particulars: "Opening funds", CounterpartyType: domain.OwnerClient}, want: false},
		{name: "ordinary deposit", entry: domain.OwnerLedgerEntry{Category: domain.CategoryDeposit, VoucherNo: "RV-1", Particulars: "rent"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsOpening())
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	r := domain.DateRange{From: &from, To: &to}

	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(to))
	assert.False(t, r.Contains(from.Add(-time.Second)))
	assert.True(t, domain.DateRange{}.Contains(from))
}

func TestOwnerType_IsAssetLike(t *testing.T) {
	assert.True(t, domain.OwnerMain.IsAssetLike())
	assert.True(t, domain.OwnerSystem.IsAssetLike())
	assert.False(t, domain.OwnerClient.IsAssetLike())
	assert.False(t, domain.OwnerProject.IsAssetLike())
}
