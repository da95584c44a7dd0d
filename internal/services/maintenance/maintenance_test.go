// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package maintenance_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/models"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/maintenance"
	"codeberg.org/zblogs/zblogs-api/internal/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, p.err
}

func TestCleanerRunOnce(t *testing.T) {
	db, _ := testutil.NewTestDB(t)
	clock := testutil.NewClock()
	store := repository.NewOTPStore(db, repository.WithOTPClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.OTP{Email: "a@x.com", Code: "111111", Purpose: models.PurposeSignup}))
	clock.Advance(6 * time.Minute)
	require.NoError(t, store.Put(ctx, &models.OTP{Email: "b@x.com", Code: "222222", Purpose: models.PurposeSignup}))

	cleaner := maintenance.NewCleaner(store)
	n, err := cleaner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, 1, testutil.CountOTPs(t, db, "b@x.com", models.PurposeSignup))
}

func TestCleanerRunOnce_Error(t *testing.T) {
	cleaner := maintenance.NewCleaner(&countingPurger{err: errors.New("db gone")})

	_, err := cleaner.RunOnce(context.Background())
	assert.EqualError(t, err, "db gone")
}

func TestCleanerStart_RunsOnSchedule(t *testing.T) {
	purger := &countingPurger{}
	cleaner := maintenance.NewCleaner(purger,
		maintenance.WithCron(cron.New(cron.WithSeconds())),
		maintenance.WithSchedule("@every 1s"),
	)

	require.NoError(t, cleaner.Start())
	t.Cleanup(func() { <-cleaner.Stop().Done() })

	assert.Eventually(t, func() bool { return purger.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestCleanerStart_InvalidSchedule(t *testing.T) {
	cleaner := maintenance.NewCleaner(&countingPurger{}, maintenance.WithSchedule("not a schedule"))

	assert.Error(t, cleaner.Start())
}

func TestCleanerStart_Disabled(t *testing.T) {
	cleaner := maintenance.NewCleaner(nil)

	require.NoError(t, cleaner.Start())
	n, err := cleaner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	<-cleaner.Stop().Done()
}
