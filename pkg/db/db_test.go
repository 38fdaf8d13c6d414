package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repo "github.com/ahwlsqja/permission-mw-signer/internal/repository/db"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*TxRunner, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = conn.Close()
	})
	return NewTxRunner(conn), mock
}

func TestConfigDSN(t *testing.T) {
	dsn := Config{
		Host:     "db.internal",
		Port:     3306,
		User:     "app",
		Password: "secret",
		Name:     "permission_mw",
	}.DSN()

	assert.Contains(t, dsn, "app:secret@tcp(db.internal:3306)/permission_mw")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Loc)
}

func TestWithTx_Commit(t *testing.T) {
	runner, mock := newRunner(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE authorizations")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.WithTx(context.Background(), func(q repo.Querier) error {
		_, err := q.UpdateAuthorizationStatus(context.Background(), repo.UpdateAuthorizationStatusParams{
			Status:   repo.AuthorizationsStatusSubmitted,
			ID:       1,
			Status_2: repo.AuthorizationsStatusIssued,
		})
		return err
	})
	require.NoError(t, err)
}

func TestWithTx_Rollback(t *testing.T) {
	runner, mock := newRunner(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := runner.WithTx(context.Background(), func(repo.Querier) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithTx_BeginFails(t *testing.T) {
	runner, mock := newRunner(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := runner.WithTx(context.Background(), func(repo.Querier) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestWithTxResult(t *testing.T) {
	runner, mock := newRunner(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM authorizations")).
		WithArgs("0xabc").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectCommit()

	n, err := WithTxResult(context.Background(), runner, func(q repo.Querier) (int64, error) {
		return q.CountAuthorizationsByRecipient(context.Background(), "0xabc")
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	assert.True(t, IsDuplicateKey(dup))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateKey(errors.New("Duplicate entry")))
	assert.False(t, IsDuplicateKey(nil))
}

func TestIsLockConflict(t *testing.T) {
	assert.True(t, IsLockConflict(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.True(t, IsLockConflict(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1205})))
	assert.False(t, IsLockConflict(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsLockConflict(errors.New("Deadlock found")))
	assert.False(t, IsLockConflict(nil))
}
