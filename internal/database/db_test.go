package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altora/accountd/internal/models"
)

func TestOpenDefaultsToSQLite(t *testing.T) {
	db, err := Open(Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrateAndPing(db))
	require.True(t, db.Migrator().HasTable(&models.User{}))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestAutoMigrateAndPingNilHandle(t *testing.T) {
	require.Error(t, AutoMigrateAndPing(nil))
}

func TestUserEmailUniqueIndex(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))

	first := models.User{Email: "unique@example.com", PasswordHash: []byte{1}, PasswordSalt: []byte{2}}
	require.NoError(t, db.Create(&first).Error)

	second := models.User{Email: "unique@example.com", PasswordHash: []byte{3}, PasswordSalt: []byte{4}}
	require.Error(t, db.Create(&second).Error)
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "svc",
		Name:     "accounts",
		Host:     "db.internal",
		Port:     5433,
		Password: "pw",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db.internal")
	require.Contains(t, dsn, "port=5433")
	require.Contains(t, dsn, "dbname=accounts")
	require.Contains(t, dsn, "sslmode=disable")

	_, err = buildPostgresDSN(Config{Driver: "postgres"})
	require.Error(t, err)

	dsn, err = buildPostgresDSN(Config{DSN: "postgres://explicit"})
	require.NoError(t, err)
	require.Equal(t, "postgres://explicit", dsn)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "svc",
		Password: "pw",
		Name:     "accounts",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "svc:pw@tcp(localhost:3306)/accounts")

	_, err = buildMySQLDSN(Config{})
	require.Error(t, err)
}
