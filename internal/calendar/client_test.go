package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/houseledger/backend/internal/testutil"
)

func newTestClient(fake *testutil.FakeCalendar) *Client {
	return NewClient(Config{
		BaseURL:    fake.URL(),
		CalendarID: "house-cal",
		Timezone:   "America/Los_Angeles",
		EventHour:  9,
	})
}

func TestEnsureRemindersInsertsThenUpdates(t *testing.T) {
	fake := testutil.NewFakeCalendar()
	defer fake.Close()
	client := newTestClient(fake)
	ctx := context.Background()

	roommates := []string{"Alice", "Bob"}
	ensured, err := client.EnsureReminders(ctx, roommates)
	assert.NoError(t, err)
	assert.Equal(t, 2, ensured)
	assert.Equal(t, 2, fake.InsertCalls)
	assert.True(t, fake.HasEvent("Rent & Utilities — Alice"))
	assert.True(t, fake.HasEvent("Rent & Utilities — Bob"))

	// A second run updates in place instead of duplicating.
	ensured, err = client.EnsureReminders(ctx, roommates)
	assert.NoError(t, err)
	assert.Equal(t, 2, ensured)
	assert.Equal(t, 2, fake.InsertCalls)
	assert.Equal(t, 2, fake.UpdateCalls)
	assert.Equal(t, 2, fake.EventCount())
}

func TestEnsureRemindersDisabledWithoutCalendarID(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused"})
	assert.False(t, client.Enabled())

	_, err := client.EnsureReminders(context.Background(), []string{"Alice"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNextFirstOfMonth(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before the first's hour rolls to same month",
			now:  time.Date(2024, 5, 1, 3, 0, 0, 0, loc),
			want: time.Date(2024, 5, 1, 9, 0, 0, 0, loc),
		},
		{
			name: "mid-month rolls to next month",
			now:  time.Date(2024, 5, 15, 12, 0, 0, 0, loc),
			want: time.Date(2024, 6, 1, 9, 0, 0, 0, loc),
		},
		{
			name: "december rolls to january",
			now:  time.Date(2024, 12, 20, 12, 0, 0, 0, loc),
			want: time.Date(2025, 1, 1, 9, 0, 0, 0, loc),
		},
		{
			name: "exactly at the event hour rolls forward",
			now:  time.Date(2024, 5, 1, 9, 0, 0, 0, loc),
			want: time.Date(2024, 6, 1, 9, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextFirstOfMonth(tt.now, 9)
			if !got.Equal(tt.want) {
				t.Errorf("nextFirstOfMonth(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
