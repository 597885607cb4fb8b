package scheduler

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronExpr(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.ScheduleSettings
		want     string
		wantErr  bool
	}{
		{
			name:     "daily evening",
			schedule: models.ScheduleSettings{Frequency: models.FrequencyDaily, Time: "19:00"},
			want:     "0 19 * * *",
		},
		{
			name:     "weekly morning",
			schedule: models.ScheduleSettings{Frequency: models.FrequencyWeekly, Time: "07:30"},
			want:     "30 7 * * 1",
		},
		{
			name:     "unknown frequency",
			schedule: models.ScheduleSettings{Frequency: "hourly", Time: "10:00"},
			wantErr:  true,
		},
		{
			name:     "bad time format",
			schedule: models.ScheduleSettings{Frequency: models.FrequencyDaily, Time: "7pm"},
			wantErr:  true,
		},
		{
			name:     "out of range hour",
			schedule: models.ScheduleSettings{Frequency: models.FrequencyDaily, Time: "25:00"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cronExpr(tt.schedule)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduler_ApplyReplacesEntry(t *testing.T) {
	s, err := New("UTC")
	require.NoError(t, err)

	require.NoError(t, s.Apply(models.ScheduleSettings{Frequency: models.FrequencyDaily, Time: "19:00"}, func() {}))
	first := s.entryID
	require.NoError(t, s.Apply(models.ScheduleSettings{Frequency: models.FrequencyWeekly, Time: "08:00"}, func() {}))

	assert.NotEqual(t, first, s.entryID)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New("UTC")
	require.NoError(t, err)

	require.NoError(t, s.Apply(models.ScheduleSettings{Frequency: models.FrequencyDaily, Time: "19:00"}, func() {}))
	s.Start()
	s.Stop()
}

func TestNew_BadTimezone(t *testing.T) {
	_, err := New("Not/AZone")
	require.Error(t, err)
}
