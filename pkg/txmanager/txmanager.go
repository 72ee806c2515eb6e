package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, когда не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, когда не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrIsolationMismatch возвращается, когда вложенный вызов требует уровень изоляции выше, чем у открытой транзакции
	ErrIsolationMismatch = errors.New("txmanager: nested call requires stricter isolation than the open transaction")
)

type isolationKey struct{}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
type TransactionManager struct {
	db dbmetrics.TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует уже открытую транзакцию, если её изоляция не слабее запрошенной
	if dbmetrics.IsInTransaction(ctx) {
		outer, _ := ctx.Value(isolationKey{}).(sql.IsolationLevel)
		if isolationOf(opts) > outer {
			return fmt.Errorf("%w: open=%s, requested=%s", ErrIsolationMismatch, outer, isolationOf(opts))
		}
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txCtx := context.WithValue(dbmetrics.WithTx(ctx, tx), isolationKey{}, isolationOf(opts))
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	// Исходную ошибку драйвера сохраняем в цепочке: по ней распознаётся конфликт сериализации
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	return nil
}

func isolationOf(opts *sql.TxOptions) sql.IsolationLevel {
	if opts == nil {
		return sql.LevelDefault
	}
	return opts.Isolation
}
