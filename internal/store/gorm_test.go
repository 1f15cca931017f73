package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestAccountsFindByExternalID(t *testing.T) {
	gdb, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "external_user_id", "email", "email_verified"}).
		AddRow(7, "ext-1", "jane@example.com", true)
	mock.ExpectQuery("SELECT \\* FROM `user_accounts` WHERE external_user_id = \\?").
		WillReturnRows(rows)

	account, err := New(gdb).Accounts().FindByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "ext-1", account.ExternalUserID)
	assert.True(t, account.EmailVerified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsFindByExternalIDNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `user_accounts` WHERE external_user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := New(gdb).Accounts().FindByExternalID(context.Background(), "ext-unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipsFindByUserAndOrganizationNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `memberships` WHERE user_id = \\? AND organization_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := New(gdb).Memberships().FindByUserAndOrganization(context.Background(), 7, "org-1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)

	mysqlDup := errors.New("Error 1062 (23000): Duplicate entry 'ext-1' for key 'idx_user_accounts_external_user_id'")
	assert.ErrorIs(t, translate(mysqlDup), ErrDuplicate)

	plain := errors.New("connection refused")
	assert.Equal(t, plain, translate(plain))
}
