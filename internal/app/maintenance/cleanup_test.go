package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/altora/accountd/internal/database/testutil"
	"github.com/altora/accountd/internal/models"
)

func TestCleanupResetTokens(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)

	expiredToken := "EXPIRED-TOKEN"
	expiredAt := now.Add(-time.Hour)
	expired := models.User{
		Email:              "expired@example.com",
		PasswordHash:       []byte{1},
		PasswordSalt:       []byte{2},
		PasswordResetToken: &expiredToken,
		ResetTokenExpires:  &expiredAt,
	}

	activeToken := "ACTIVE-TOKEN"
	activeAt := now.Add(time.Hour)
	active := models.User{
		Email:              "active@example.com",
		PasswordHash:       []byte{1},
		PasswordSalt:       []byte{2},
		PasswordResetToken: &activeToken,
		ResetTokenExpires:  &activeAt,
	}

	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&active).Error)

	affected, err := CleanupResetTokens(context.Background(), db, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "email = ?", "expired@example.com").Error)
	require.Nil(t, reloaded.PasswordResetToken)
	require.Nil(t, reloaded.ResetTokenExpires)

	var reloadedActive models.User
	require.NoError(t, db.First(&reloadedActive, "email = ?", "active@example.com").Error)
	require.NotNil(t, reloadedActive.PasswordResetToken)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)

	token := "STALE-TOKEN"
	staleAt := now.Add(-time.Minute)
	user := models.User{
		Email:              "stale@example.com",
		PasswordHash:       []byte{1},
		PasswordSalt:       []byte{2},
		PasswordResetToken: &token,
		ResetTokenExpires:  &staleAt,
	}
	require.NoError(t, db.Create(&user).Error)

	cleaner := NewCleaner(db, WithNow(func() time.Time { return now }))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "email = ?", "stale@example.com").Error)
	require.Nil(t, reloaded.PasswordResetToken)
}

func TestCleanerStartRegistersJob(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))

	cleaner := NewCleaner(db,
		WithCron(scheduler),
		WithTokenSchedule("@every 1h"),
	)
	require.NoError(t, cleaner.Start())
	require.Len(t, scheduler.Entries(), 1)

	<-cleaner.Stop().Done()
}

func TestCleanerRejectsBadSchedule(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	cleaner := NewCleaner(db, WithTokenSchedule("not-a-schedule"))
	require.Error(t, cleaner.Start())
}
