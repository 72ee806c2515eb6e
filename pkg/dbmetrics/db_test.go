package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
	committed bool
}

func (f *fakeTx) Commit() error   { f.committed = true; return nil }
func (f *fakeTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	fallback := Wrap(&sql.DB{}, nil)

	ctx := context.Background()
	assert.Same(t, fallback, GetExecutor(ctx, fallback))
	assert.False(t, IsInTransaction(ctx))

	tx := &fakeTx{}
	txCtx := WithTx(ctx, tx)
	assert.Same(t, tx, GetExecutor(txCtx, fallback))
	assert.True(t, IsInTransaction(txCtx))
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id FROM bookings", "select"},
		{"  insert into bookings (id) values ($1)", "insert"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, operationName(tt.query))
	}
}
