package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/core/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/SscSPs/trust_ledger/internal/platform/blobstore"
	"github.com/SscSPs/trust_ledger/internal/platform/locking"
	"github.com/SscSPs/trust_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/trust_ledger/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type LedgerIntegrationTestSuite struct {
	suite.Suite
	ctx          context.Context
	db           *sql.DB
	repos        portsrepo.RepositoryProvider
	owners       portssvc.OwnerSvcFacade
	accounts     portssvc.AccountSvcFacade
	transactions portssvc.TransactionSvcFacade
	ledger       portssvc.LedgerSvcFacade
	main         *domain.Owner
	client       *domain.Owner
}

func (suite *LedgerIntegrationTestSuite) SetupTest() {
	suite.ctx = context.Background()
	dir := suite.T().TempDir()

	db, err := database.NewSQLite(suite.ctx, filepath.Join(dir, "ledger.db"))
	suite.Require().NoError(err)
	suite.db = db
	suite.Require().NoError(database.Migrate(db, database.DriverSQLite, "", slog.New(slog.NewTextHandler(io.Discard, nil))))

	blobs, err := blobstore.NewLocalStore(filepath.Join(dir, "blobs"))
	suite.Require().NoError(err)

	suite.repos = sqlite.NewRepositoryProvider(db)
	suite.owners = services.NewOwnerService(suite.repos.OwnerRepo, suite.repos.AccountRepo)
	suite.accounts = services.NewAccountService(suite.repos.AccountRepo)
	suite.transactions = services.NewTransactionService(suite.repos.TransactionRepo, suite.repos.OwnerRepo, blobs,
		services.WithOwnerLocker(locking.NewLocalLocker()))
	suite.ledger = services.NewLedgerService(suite.repos.LedgerRepo, suite.repos.OwnerRepo, suite.repos.AccountRepo)

	suite.main = suite.newOwner("MAIN-001", domain.OwnerMain)
	suite.client = suite.newOwner("CLIENT-007", domain.OwnerClient)
}

func (suite *LedgerIntegrationTestSuite) TearDownTest() {
	suite.NoError(suite.db.Close())
}

func (suite *LedgerIntegrationTestSuite) newOwner(code string, ownerType domain.OwnerType) *domain.Owner {
	accountType := domain.Liability
	if ownerType.IsAssetLike() {
		accountType = domain.Asset
	}
	account, err := suite.accounts.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Code:        "ACC-" + code,
		Name:        code + " funds",
		AccountType: accountType,
	}, "tester")
	suite.Require().NoError(err)

	owner, err := suite.owners.CreateOwner(suite.ctx, dto.CreateOwnerRequest{
		Code:      code,
		OwnerType: ownerType,
		Name:      code,
		AccountID: &account.AccountID,
	}, "tester")
	suite.Require().NoError(err)
	return owner
}

func (suite *LedgerIntegrationTestSuite) post(from, to *domain.Owner, category domain.Category, amount string, mutate ...func(*dto.PostTransactionRequest)) (*domain.Transaction, error) {
	d := decimal.RequireFromString(amount)
	req := dto.PostTransactionRequest{
		FromOwnerID: from.OwnerID,
		ToOwnerID:   to.OwnerID,
		Amount:      &d,
		Category:    category,
		TransType:   domain.InstrumentInternal,
		Particulars: "Client funds",
	}
	for _, m := range mutate {
		m(&req)
	}
	return suite.transactions.PostTransaction(suite.ctx, req, "tester")
}

func (suite *LedgerIntegrationTestSuite) countRows(table string) int {
	var n int
	suite.Require().NoError(suite.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n))
	return n
}

func (suite *LedgerIntegrationTestSuite) latestBalance(owner *domain.Owner) decimal.Decimal {
	entry, err := suite.repos.LedgerRepo.FindLatestOwnerEntry(suite.ctx, owner.OwnerID)
	suite.Require().NoError(err)
	if entry == nil {
		return decimal.Zero
	}
	return entry.RunningBalance
}

func (suite *LedgerIntegrationTestSuite) TestPostAndReload() {
	_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "5000.00")
	suite.Require().NoError(err)
	txn, err := suite.post(suite.main, suite.client, domain.CategoryWithdrawal, "2000.00")
	suite.Require().NoError(err)

	suite.True(suite.latestBalance(suite.main).Equal(decimal.NewFromInt(3000)))
	suite.True(suite.latestBalance(suite.client).Equal(decimal.NewFromInt(3000)))

	reloaded, err := suite.repos.TransactionRepo.FindTransactionByID(suite.ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.True(reloaded.IsPosted)
	suite.NotNil(reloaded.PostedAt)
	suite.True(reloaded.Amount.Equal(decimal.NewFromInt(2000)))
	suite.Require().Len(reloaded.LedgerEntries, 2)
	suite.Equal(domain.OwnerClient, reloaded.LedgerEntries[0].CounterpartyType)
	suite.Equal(domain.OwnerMain, reloaded.LedgerEntries[1].CounterpartyType)
	suite.Require().Len(reloaded.GLEntries, 2)

	_, err = suite.repos.TransactionRepo.FindTransactionByID(suite.ctx, txn.TransactionID+100)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerIntegrationTestSuite) TestGeneralLedgerBalancesPerTransaction() {
	for _, amount := range []string{"100.10", "0.01", "999.99"} {
		_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, amount)
		suite.Require().NoError(err)
	}

	rows, err := suite.db.Query("SELECT transaction_id, debit, credit FROM general_ledger_entries")
	suite.Require().NoError(err)
	defer rows.Close()

	sums := map[int64]decimal.Decimal{}
	for rows.Next() {
		var id int64
		var debit, credit decimal.Decimal
		suite.Require().NoError(rows.Scan(&id, &debit, &credit))
		sums[id] = sums[id].Add(debit).Sub(credit)
	}
	suite.Require().NoError(rows.Err())
	suite.Len(sums, 3)
	for id, sum := range sums {
		suite.True(sum.IsZero(), "transaction %d does not balance: %s", id, sum)
	}

	stmt, err := suite.ledger.GetAccountLedger(suite.ctx, suite.client.AccountID, domain.DateRange{})
	suite.Require().NoError(err)
	suite.True(stmt.TotalDebit.Equal(decimal.RequireFromString("1100.10")))
	suite.True(stmt.ClosingBalance.Equal(decimal.RequireFromString("1100.10")))
}

func (suite *LedgerIntegrationTestSuite) TestDuplicateVoucherIsRejected() {
	withVoucher := func(r *dto.PostTransactionRequest) {
		r.VoucherNo = "v-2024-001"
		r.VoucherDate = "2024-04-01"
	}
	_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "10", withVoucher)
	suite.Require().NoError(err)

	_, err = suite.post(suite.main, suite.client, domain.CategoryDeposit, "10", withVoucher)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(1, suite.countRows("transactions"))
	suite.Equal(2, suite.countRows("owner_ledger_entries"))
}

func (suite *LedgerIntegrationTestSuite) TestAmountBeyondStoragePrecisionIsRejected() {
	txn, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "100000000000000000000")

	suite.Nil(txn)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(0, suite.countRows("transactions"))
	suite.Equal(0, suite.countRows("owner_ledger_entries"))
}

func (suite *LedgerIntegrationTestSuite) TestConcurrentPostingsKeepBalancesConsistent() {
	const workers = 12
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "12.50")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.Require().NoError(err)
	}

	want := decimal.RequireFromString("12.50").Mul(decimal.NewFromInt(workers))
	suite.True(suite.latestBalance(suite.client).Equal(want), "client balance %s", suite.latestBalance(suite.client))
	suite.True(suite.latestBalance(suite.main).Equal(want), "main balance %s", suite.latestBalance(suite.main))

	stmt, err := suite.ledger.GetOwnerLedger(suite.ctx, suite.client.OwnerID, domain.SortAsc, domain.DateRange{})
	suite.Require().NoError(err)
	suite.Require().Len(stmt.Lines, workers)
	running := decimal.Zero
	for _, line := range stmt.Lines {
		running = running.Add(line.Deposit).Sub(line.Withdrawal)
		suite.True(line.Entry.RunningBalance.Equal(running))
	}
}

func (suite *LedgerIntegrationTestSuite) TestOpeningBalanceIndependentOfSort() {
	system := suite.newOwner("SYS-OPENING", domain.OwnerSystem)
	_, err := suite.post(system, suite.client, domain.CategoryOpening, "1000", func(r *dto.PostTransactionRequest) {
		r.Particulars = "Opening Balance"
	})
	suite.Require().NoError(err)
	for i := 0; i < 2; i++ {
		_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "200")
		suite.Require().NoError(err)
	}

	asc, err := suite.ledger.GetOwnerLedger(suite.ctx, suite.client.OwnerID, domain.SortAsc, domain.DateRange{})
	suite.Require().NoError(err)
	desc, err := suite.ledger.GetOwnerLedger(suite.ctx, suite.client.OwnerID, domain.SortDesc, domain.DateRange{})
	suite.Require().NoError(err)

	suite.True(asc.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(desc.OpeningBalance.Equal(asc.OpeningBalance))
	suite.Len(asc.Lines, 2)
	suite.True(asc.ClosingBalance.Equal(decimal.NewFromInt(1400)))
	suite.True(desc.ClosingBalance.Equal(asc.ClosingBalance))
	suite.Equal(asc.Lines[0].Entry.EntryID, desc.Lines[1].Entry.EntryID)

	from := time.Now().Add(time.Hour)
	later, err := suite.ledger.GetOwnerLedger(suite.ctx, suite.client.OwnerID, domain.SortAsc, domain.DateRange{From: &from})
	suite.Require().NoError(err)
	suite.Empty(later.Lines)
	suite.True(later.OpeningBalance.Equal(decimal.NewFromInt(1400)))
	suite.True(later.ClosingBalance.Equal(decimal.NewFromInt(1400)))
}

func (suite *LedgerIntegrationTestSuite) TestBackdatedVoucherRangeByLedgerKind() {
	_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "75", func(r *dto.PostTransactionRequest) {
		r.VoucherNo = "V-BACKDATED"
		r.VoucherDate = "2020-01-15"
	})
	suite.Require().NoError(err)

	from := time.Now().Add(-time.Hour)
	rng := domain.DateRange{From: &from}

	// owner statements follow posting time
	stmt, err := suite.ledger.GetOwnerLedger(suite.ctx, suite.client.OwnerID, domain.SortAsc, rng)
	suite.Require().NoError(err)
	suite.Require().Len(stmt.Lines, 1)
	suite.True(stmt.OpeningBalance.IsZero())
	suite.True(stmt.ClosingBalance.Equal(decimal.NewFromInt(75)))

	// the account ledger follows the voucher date
	acct, err := suite.ledger.GetAccountLedger(suite.ctx, suite.client.AccountID, rng)
	suite.Require().NoError(err)
	suite.Empty(acct.Lines)
}

func (suite *LedgerIntegrationTestSuite) TestFailedUnitOfWorkLeavesNoRows() {
	boom := fmt.Errorf("boom")
	err := suite.repos.TransactionRepo.RunInTx(suite.ctx, func(ctx context.Context, tx portsrepo.PostingTx) error {
		now := time.Now().UTC()
		txn := &domain.Transaction{
			Category:        domain.CategoryDeposit,
			Method:          domain.MethodDeposit,
			TransType:       domain.InstrumentInternal,
			FromOwnerID:     suite.main.OwnerID,
			ToOwnerID:       suite.client.OwnerID,
			Amount:          decimal.NewFromInt(5),
			Particulars:     "never committed",
			TransferGroupID: "grp",
			Status:          domain.StatusActive,
			AuditFields:     domain.AuditFields{CreatedAt: now, CreatedBy: "tester", LastUpdatedAt: now, LastUpdatedBy: "tester"},
		}
		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return err
		}
		suite.NotZero(txn.TransactionID)
		return boom
	})
	suite.ErrorIs(err, boom)
	suite.Equal(0, suite.countRows("transactions"))
}

func (suite *LedgerIntegrationTestSuite) TestListTransactionsPaginates() {
	for i := 0; i < 3; i++ {
		_, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "1")
		suite.Require().NoError(err)
	}

	page, err := suite.transactions.ListTransactions(suite.ctx, dto.ListTransactionsParams{OwnerID: suite.client.OwnerID, Limit: 2})
	suite.Require().NoError(err)
	suite.Len(page.Transactions, 2)
	suite.Require().NotNil(page.NextToken)

	rest, err := suite.transactions.ListTransactions(suite.ctx, dto.ListTransactionsParams{OwnerID: suite.client.OwnerID, Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Len(rest.Transactions, 1)
	suite.Nil(rest.NextToken)
	suite.Less(rest.Transactions[0].TransactionID, page.Transactions[1].TransactionID)
}

func (suite *LedgerIntegrationTestSuite) TestAttachmentsAndInstrumentsPersist() {
	txn, err := suite.post(suite.main, suite.client, domain.CategoryDeposit, "750", func(r *dto.PostTransactionRequest) {
		r.TransType = domain.InstrumentCheque
		r.Instruments = []dto.InstrumentInput{{InstrumentType: domain.InstrumentCheque, InstrumentNo: "chq-1"}}
		r.Attachments = []dto.AttachmentUpload{{FileName: "cheque.pdf", MimeType: "application/pdf", Content: pdfContent}}
	})
	suite.Require().NoError(err)
	suite.Require().Len(txn.Attachments, 1)

	stmt, err := suite.ledger.GetOwnerLedger(suite.ctx, suite.client.OwnerID, domain.SortAsc, domain.DateRange{})
	suite.Require().NoError(err)
	suite.Require().Len(stmt.Lines, 1)
	suite.Require().Len(stmt.Lines[0].Instruments, 1)
	suite.Equal("CHQ-1", stmt.Lines[0].Instruments[0].InstrumentNo)
	suite.Require().Len(stmt.Lines[0].Attachments, 1)

	meta, rc, err := suite.transactions.OpenAttachment(suite.ctx, txn.TransactionID, txn.Attachments[0].AttachmentID)
	suite.Require().NoError(err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	suite.Require().NoError(err)
	suite.Equal(pdfContent, content)
	suite.Equal("application/pdf", meta.MimeType)
}

func TestLedgerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerIntegrationTestSuite))
}
