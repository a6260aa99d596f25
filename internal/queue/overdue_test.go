package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/queue"
)

func TestThreshold(t *testing.T) {
	fiveMinutes := int64(5 * 60 * 1000)

	tests := []struct {
		name     string
		client   models.Client
		expected time.Duration
	}{
		{
			name:     "default threshold",
			client:   models.Client{},
			expected: 2 * time.Hour,
		},
		{
			name:     "per-record override",
			client:   models.Client{TestDurationMs: &fiveMinutes},
			expected: 5 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queue.Threshold(tt.client, queue.DefaultOverdueThreshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsOverdue(t *testing.T) {
	createdAt := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	calledAt := createdAt.Add(time.Hour).UnixMilli()
	shortThreshold := int64(60_000)

	tests := []struct {
		name     string
		client   models.Client
		now      time.Time
		expected bool
	}{
		{
			name:     "fresh pending record",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt,
			expected: false,
		},
		{
			name:     "just under the threshold",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(2*time.Hour - time.Millisecond),
			expected: false,
		},
		{
			name:     "exactly at the threshold",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(2 * time.Hour),
			expected: true,
		},
		{
			name:     "past the threshold",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(2*time.Hour + time.Millisecond),
			expected: true,
		},
		{
			name: "called record never overdue",
			client: models.Client{
				Status:    models.StatusCalled,
				CreatedAt: createdAt.UnixMilli(),
				CalledAt:  &calledAt,
			},
			now:      createdAt.Add(48 * time.Hour),
			expected: false,
		},
		{
			name: "per-record threshold honored",
			client: models.Client{
				Status:         models.StatusPending,
				CreatedAt:      createdAt.UnixMilli(),
				TestDurationMs: &shortThreshold,
			},
			now:      createdAt.Add(time.Minute),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queue.IsOverdue(tt.client, tt.now, queue.DefaultOverdueThreshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// A client added, left waiting past the threshold, then attended: the flag
// raises while they wait and drops permanently once they are called.
func TestIsOverdue_Lifecycle(t *testing.T) {
	createdAt := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	c := models.Client{ID: "bruno", Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()}

	assert.False(t, queue.IsOverdue(c, createdAt, queue.DefaultOverdueThreshold))

	late := createdAt.Add(2*time.Hour + time.Millisecond)
	assert.True(t, queue.IsOverdue(c, late, queue.DefaultOverdueThreshold))

	calledAt := late.UnixMilli()
	c.Status = models.StatusCalled
	c.CalledAt = &calledAt
	assert.False(t, queue.IsOverdue(c, late.Add(time.Hour), queue.DefaultOverdueThreshold))
}

func TestRemainingText(t *testing.T) {
	createdAt := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	calledAt := createdAt.UnixMilli()

	tests := []struct {
		name     string
		client   models.Client
		now      time.Time
		expected string
	}{
		{
			name:     "full window remaining",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt,
			expected: "2h 0min",
		},
		{
			name:     "above an hour",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(30 * time.Minute),
			expected: "1h 30min",
		},
		{
			name:     "below an hour",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(time.Hour + 15*time.Minute),
			expected: "45min",
		},
		{
			name:     "expired",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(3 * time.Hour),
			expected: queue.ExpiredText,
		},
		{
			name:     "expired exactly at the threshold",
			client:   models.Client{Status: models.StatusPending, CreatedAt: createdAt.UnixMilli()},
			now:      createdAt.Add(2 * time.Hour),
			expected: queue.ExpiredText,
		},
		{
			name: "called record has no countdown",
			client: models.Client{
				Status:    models.StatusCalled,
				CreatedAt: createdAt.UnixMilli(),
				CalledAt:  &calledAt,
			},
			now:      createdAt.Add(time.Minute),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queue.RemainingText(tt.client, tt.now, queue.DefaultOverdueThreshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}
