package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTXManager_Begin(t *testing.T) {
	errFn := errors.New("fn failed")

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		fn        TransactionalFn
		expectErr error
	}{
		{
			name: "Commit on success",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context) error {
				_, ok := ctx.Value(txKey{}).(pgx.Tx)
				if !ok {
					return errors.New("no transaction in context")
				}
				return nil
			},
		},
		{
			name: "Rollback on fn error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:        func(ctx context.Context) error { return errFn },
			expectErr: errFn,
		},
		{
			name: "Begin error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn: func(ctx context.Context) error {
				t.Error("fn must not run without a transaction")
				return nil
			},
			expectErr: errors.New("can't begin transaction: connection refused"),
		},
		{
			name: "Commit error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
				mock.ExpectRollback()
			},
			fn:        func(ctx context.Context) error { return nil },
			expectErr: errors.New("can't commit transaction: serialization failure"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)
			m := NewTXManager(mock)

			err = m.Begin(context.Background(), tt.fn)
			if tt.expectErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectErr.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTXManager_BeginNested(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTXManager(mock)
	calls := 0
	err = m.Begin(context.Background(), func(ctx context.Context) error {
		return m.Begin(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
