package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardCron(t *testing.T) {
	cron := NewStandardCron()
	defer cron.Stop(context.Background())

	require.Error(t, cron.Cron("not a schedule", func() {}))

	fired := make(chan struct{}, 1)
	require.NoError(t, cron.Cron("@every 1s", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("cron job never ran")
	}
}

func TestTime(t *testing.T) {
	require.Equal(t, time.UTC, NewStandardTime().Now().Location())

	fixed := FixedTime{Time: time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)}
	require.Equal(t, fixed.Time, fixed.Now())
}
