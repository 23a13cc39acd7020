package processor_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankx/transactions/internal/fixtures"
	"github.com/bankx/transactions/pkg/broadcast"
	"github.com/bankx/transactions/pkg/domain"
	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/processor"
	"github.com/bankx/transactions/pkg/repository"
	"github.com/bankx/transactions/pkg/risk"
)

type env struct {
	uow         *fixtures.UnitOfWork
	svc         *processor.Service
	broadcaster *broadcast.Broadcaster
	accountID   uuid.UUID
}

// newEnv seeds one PEN account ("A001", balance 2000) and a PEN risk rule
// capping single debits at 1500.
func newEnv(t *testing.T) *env {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	ctx := context.Background()

	accountID := uuid.New()
	require.NoError(t, uow.Accounts.Create(ctx, dto.AccountCreate{
		ID:         accountID,
		Number:     "A001",
		HolderName: "Ana Peru",
		Currency:   "PEN",
		Balance:    decimal.NewFromInt(2000),
	}))
	require.NoError(t, uow.RiskRules.Upsert(ctx, dto.RiskRuleCreate{
		Currency:      "PEN",
		MaxDebitPerTx: decimal.NewFromInt(1500),
	}))

	broadcaster := broadcast.New(64, broadcast.DropOldest, slog.Default())
	evaluator := risk.New(uow.RiskRules, slog.Default())
	svc := processor.New(uow, evaluator, broadcaster, 3, slog.Default())
	return &env{uow: uow, svc: svc, broadcaster: broadcaster, accountID: accountID}
}

func (e *env) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	acct, err := e.uow.Accounts.GetByNumber(context.Background(), "A001")
	require.NoError(t, err)
	return acct.Balance
}

func TestCreateTransaction_CreditAndDebit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	credit, err := e.svc.CreateTransaction(ctx, "A001", "CREDIT", decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.Equal(t, "CREDIT", credit.Type)
	assert.Equal(t, "OK", credit.Status)
	assert.Equal(t, e.accountID, credit.AccountID)

	debit, err := e.svc.CreateTransaction(ctx, "A001", "debit", decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, "DEBIT", debit.Type, "type is normalized to uppercase")

	// balance = initial + credits - debits
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(2000+300-50)),
		"got balance %s", e.balance(t))
	assert.Equal(t, 2, e.uow.Transactions.Len())
}

func TestCreateTransaction_InvalidRequests(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		txType string
		amount decimal.Decimal
	}{
		{"unknown type", "TRANSFER", decimal.NewFromInt(10)},
		{"zero amount", "DEBIT", decimal.Zero},
		{"negative amount", "CREDIT", decimal.NewFromInt(-5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.svc.CreateTransaction(ctx, "A001", tc.txType, tc.amount)
			require.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
	assert.Equal(t, 0, e.uow.Transactions.Len(), "rejected requests leave no log entry")
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(2000)))
}

func TestCreateTransaction_AccountNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateTransaction(ctx, "NOPE", "DEBIT", decimal.NewFromInt(10))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = e.svc.ListTransactions(ctx, "NOPE")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCreateTransaction_InsufficientFunds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Within the risk limit but above the balance.
	require.NoError(t, e.uow.Accounts.Create(ctx, dto.AccountCreate{
		ID: uuid.New(), Number: "A002", HolderName: "Luis Acuña",
		Currency: "PEN", Balance: decimal.NewFromInt(800),
	}))
	_, err := e.svc.CreateTransaction(ctx, "A002", "DEBIT", decimal.NewFromInt(1000))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 0, e.uow.Transactions.Len())
}

func TestCreateTransaction_RiskRejectedBeforeFundsCheck(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Over the limit AND over the balance: risk must win.
	require.NoError(t, e.uow.Accounts.Create(ctx, dto.AccountCreate{
		ID: uuid.New(), Number: "A002", HolderName: "Luis Acuña",
		Currency: "PEN", Balance: decimal.NewFromInt(800),
	}))
	_, err := e.svc.CreateTransaction(ctx, "A002", "DEBIT", decimal.NewFromInt(1600))
	require.ErrorIs(t, err, domain.ErrRiskRejected)
	assert.Equal(t, 0, e.uow.Transactions.Len())
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(2000)))
}

// Two simultaneous 1500 debits against a balance of 2000: exactly one
// commits, the other fails with insufficient funds, and the log holds
// exactly one OK record.
func TestCreateTransaction_ConcurrentDebitsSerialized(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = e.svc.CreateTransaction(ctx, "A001", "DEBIT", decimal.NewFromInt(1500))
		}()
	}
	wg.Wait()

	var committed, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, domain.ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, rejected)
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(500)), "got balance %s", e.balance(t))
	assert.Equal(t, 1, e.uow.Transactions.Len())
}

// conflictingUoW simulates another writer sneaking a commit in between the
// processor's balance read and its compare-and-swap.
type conflictingUoW struct {
	*fixtures.UnitOfWork
	accountID uuid.UUID
	remaining int
}

func (c *conflictingUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if c.remaining != 0 {
		if c.remaining > 0 {
			c.remaining--
		}
		acct, err := c.Accounts.GetByNumber(ctx, "A001")
		if err != nil {
			return err
		}
		if err := c.Accounts.CommitBalance(
			ctx, c.accountID, acct.Balance, acct.Balance.Add(decimal.NewFromInt(1)),
		); err != nil {
			return err
		}
	}
	return c.UnitOfWork.Do(ctx, fn)
}

func TestCreateTransaction_RetriesAfterCommitConflict(t *testing.T) {
	e := newEnv(t)
	uow := &conflictingUoW{UnitOfWork: e.uow, accountID: e.accountID, remaining: 1}
	evaluator := risk.New(e.uow.RiskRules, slog.Default())
	svc := processor.New(uow, evaluator, e.broadcaster, 3, slog.Default())

	got, err := svc.CreateTransaction(context.Background(), "A001", "DEBIT", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "OK", got.Status)
	// 2000, +1 sneaked in, -100 debit
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(1901)), "got balance %s", e.balance(t))
	assert.Equal(t, 1, e.uow.Transactions.Len())
}

func TestCreateTransaction_ConflictRetriesExhausted(t *testing.T) {
	e := newEnv(t)
	uow := &conflictingUoW{UnitOfWork: e.uow, accountID: e.accountID, remaining: -1}
	evaluator := risk.New(e.uow.RiskRules, slog.Default())
	svc := processor.New(uow, evaluator, e.broadcaster, 2, slog.Default())

	_, err := svc.CreateTransaction(context.Background(), "A001", "DEBIT", decimal.NewFromInt(100))
	require.ErrorIs(t, err, domain.ErrConcurrentUpdateConflict)
	assert.Equal(t, 0, e.uow.Transactions.Len())
}

func TestCreateTransaction_LogAppendFailureRollsBackBalance(t *testing.T) {
	e := newEnv(t)
	e.uow.Transactions.FailCreate = errors.New("log append failed")

	_, err := e.svc.CreateTransaction(context.Background(), "A001", "DEBIT", decimal.NewFromInt(100))
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.True(t, e.balance(t).Equal(decimal.NewFromInt(2000)),
		"balance must roll back when the log append fails, got %s", e.balance(t))
	assert.Equal(t, 0, e.uow.Transactions.Len())
}

func TestListTransactions_NewestFirstAndIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	amounts := []int64{10, 20, 30}
	for _, a := range amounts {
		_, err := e.svc.CreateTransaction(ctx, "A001", "CREDIT", decimal.NewFromInt(a))
		require.NoError(t, err)
	}

	first, err := e.svc.ListTransactions(ctx, "A001")
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.True(t, first[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, first[2].Amount.Equal(decimal.NewFromInt(10)))
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].Timestamp.After(first[i-1].Timestamp),
			"timestamps must be non-increasing")
	}

	second, err := e.svc.ListTransactions(ctx, "A001")
	require.NoError(t, err)
	assert.Equal(t, first, second, "read with no intervening writes is idempotent")
}

func TestListTransactions_EqualTimestampsBreakTiesByInsertion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ts := time.Now().UTC()
	older := uuid.New()
	newer := uuid.New()
	for _, id := range []uuid.UUID{older, newer} {
		require.NoError(t, e.uow.Transactions.Create(ctx, dto.TransactionCreate{
			ID: id, AccountID: e.accountID, Type: "CREDIT",
			Amount: decimal.NewFromInt(1), Timestamp: ts, Status: "OK",
		}))
	}

	list, err := e.svc.ListTransactions(ctx, "A001")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0].ID, "most recent insert first on equal timestamps")
	assert.Equal(t, older, list[1].ID)
}

func TestSubscribe_ReceivesOnlyCommitsAfterSubscription(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateTransaction(ctx, "A001", "CREDIT", decimal.NewFromInt(1))
	require.NoError(t, err)

	ch, cancel := e.svc.Subscribe()
	defer cancel()

	// A rejection publishes nothing.
	_, err = e.svc.CreateTransaction(ctx, "A001", "DEBIT", decimal.NewFromInt(9999))
	require.ErrorIs(t, err, domain.ErrRiskRejected)

	committed, err := e.svc.CreateTransaction(ctx, "A001", "CREDIT", decimal.NewFromInt(2))
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, committed.ID, got.ID, "stream starts at the first commit after subscribing")
	case <-time.After(time.Second):
		t.Fatal("expected a streamed transaction")
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra streamed transaction %s", extra.ID)
	default:
	}
}
