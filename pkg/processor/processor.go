// Package processor orchestrates the transaction pipeline: it validates a
// requested transaction against an account and the risk policy, atomically
// mutates the account balance, durably records the transaction and publishes
// it to live subscribers.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankx/transactions/pkg/broadcast"
	"github.com/bankx/transactions/pkg/currency"
	"github.com/bankx/transactions/pkg/domain"
	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/repository"
	"github.com/bankx/transactions/pkg/risk"
)

// Service is the transaction processor. Mutations of a given account are
// serialized two ways: an in-process mutex keyed by account ID makes the
// risk/funds/commit/append sequence a critical section, and the balance
// commit itself is a compare-and-swap that is retried a bounded number of
// times, so a writer that lost a race is forced onto the fresh balance.
type Service struct {
	uow         repository.UnitOfWork
	evaluator   *risk.Evaluator
	broadcaster *broadcast.Broadcaster
	locks       sync.Map // account ID -> *sync.Mutex
	maxRetries  int
	logger      *slog.Logger
}

// New creates a processor Service.
func New(
	uow repository.UnitOfWork,
	evaluator *risk.Evaluator,
	broadcaster *broadcast.Broadcaster,
	maxRetries int,
	logger *slog.Logger,
) *Service {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Service{
		uow:         uow,
		evaluator:   evaluator,
		broadcaster: broadcaster,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

// CreateTransaction runs the pipeline for one request. Rejections
// (ErrInvalidRequest, ErrAccountNotFound, ErrRiskRejected,
// ErrInsufficientFunds) leave no trace: no balance change, no log entry.
// On success the persisted transaction is returned after it has been
// published to subscribers; publishing is best-effort and never fails the
// caller.
func (s *Service) CreateTransaction(
	ctx context.Context,
	accountNumber string,
	rawType string,
	amount decimal.Decimal,
) (*dto.TransactionRead, error) {
	txType, err := domain.ParseTxType(rawType)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be strictly positive, got %s",
			domain.ErrInvalidRequest, amount)
	}
	logger := s.logger.With("account_number", accountNumber, "type", txType, "amount", amount)

	acct, err := s.resolveAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	// Serialize all balance mutations for this account.
	lock := s.lockFor(acct.ID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Lost a commit race: re-read the freshly committed balance.
			if acct, err = s.resolveAccount(ctx, accountNumber); err != nil {
				return nil, err
			}
		}

		allowed, err := s.evaluator.IsAllowed(ctx, currency.Code(acct.Currency), txType, amount)
		if err != nil {
			return nil, err
		}
		if !allowed {
			logger.Info("transaction rejected by risk policy", "currency", acct.Currency)
			return nil, fmt.Errorf("%w: %s %s exceeds the %s limit",
				domain.ErrRiskRejected, txType, amount, acct.Currency)
		}

		if txType == domain.TxDebit && amount.GreaterThan(acct.Balance) {
			logger.Info("transaction rejected for insufficient funds", "balance", acct.Balance)
			return nil, fmt.Errorf("%w: balance %s, requested %s",
				domain.ErrInsufficientFunds, acct.Balance, amount)
		}

		created := dto.TransactionCreate{
			ID:        uuid.New(),
			AccountID: acct.ID,
			Type:      string(txType),
			Amount:    amount,
			Timestamp: time.Now().UTC(),
			Status:    string(domain.StatusOK),
		}
		newBalance := txType.Apply(acct.Balance, amount)

		// Balance commit and log append are one unit: both run in the
		// same transaction, so a failed append rolls the balance back.
		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			if err := accounts.CommitBalance(ctx, acct.ID, acct.Balance, newBalance); err != nil {
				return err
			}
			transactions, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			return transactions.Create(ctx, created)
		})
		if errors.Is(err, repository.ErrConflict) {
			logger.Warn("balance commit conflict, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: committing transaction: %v", domain.ErrStorageUnavailable, err)
		}

		persisted := dto.TransactionRead{
			ID:        created.ID,
			AccountID: created.AccountID,
			Type:      created.Type,
			Amount:    created.Amount,
			Timestamp: created.Timestamp,
			Status:    created.Status,
		}
		s.broadcaster.Publish(persisted)
		logger.Info("transaction committed",
			"tx", persisted.ID, "new_balance", newBalance, "attempts", attempt+1)
		return &persisted, nil
	}

	logger.Error("balance commit retries exhausted", "retries", s.maxRetries)
	return nil, fmt.Errorf("%w: account %s", domain.ErrConcurrentUpdateConflict, accountNumber)
}

// ListTransactions returns the account's committed transactions, newest
// first. Read-only; requires no serialization.
func (s *Service) ListTransactions(ctx context.Context, accountNumber string) ([]*dto.TransactionRead, error) {
	acct, err := s.resolveAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	transactions, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	list, err := transactions.ListByAccount(ctx, acct.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing transactions: %v", domain.ErrStorageUnavailable, err)
	}
	return list, nil
}

// Subscribe exposes the broadcaster's live stream of committed transactions.
// The returned channel starts empty; the cancel function must be called when
// the consumer goes away.
func (s *Service) Subscribe() (<-chan dto.TransactionRead, func()) {
	return s.broadcaster.Subscribe()
}

func (s *Service) resolveAccount(ctx context.Context, number string) (*dto.AccountRead, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	acct, err := accounts.GetByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolving account: %v", domain.ErrStorageUnavailable, err)
	}
	return acct, nil
}

func (s *Service) lockFor(id uuid.UUID) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
