package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opsdash/mcsync/internal/models"
)

func msgWithServices(services ...string) models.Message {
	return models.Message{Services: services}
}

func TestTally(t *testing.T) {
	msgs := []models.Message{
		msgWithServices("Teams"),
		msgWithServices("Teams", "Outlook"),
		msgWithServices(),
		msgWithServices("SharePoint"),
	}

	counts := Tally(msgs)

	assert.Equal(t, map[string]int{
		"Teams":      2,
		"Outlook":    1,
		"SharePoint": 1,
	}, counts)
}

func TestTally_OrderIndependent(t *testing.T) {
	msgs := []models.Message{
		msgWithServices("Teams"),
		msgWithServices("Teams", "Outlook"),
		msgWithServices("Exchange Online", "Teams"),
	}
	reversed := []models.Message{msgs[2], msgs[1], msgs[0]}

	assert.Equal(t, Tally(msgs), Tally(reversed))
}

func TestTally_Empty(t *testing.T) {
	assert.Empty(t, Tally(nil))
	assert.Empty(t, Tally([]models.Message{msgWithServices()}))
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	counts := map[string]int{"Teams": 2, "Outlook": 1}

	reports := BuildReport(counts, now)

	assert.Len(t, reports, 2)
	assert.Equal(t, models.ServiceReport{
		ServiceName:           "Outlook",
		MessageCount:          1,
		LastUpdated:           "2024-03-07 12:00:00",
		AverageMessagesPerDay: 0.03,
	}, reports[0])
	assert.Equal(t, models.ServiceReport{
		ServiceName:           "Teams",
		MessageCount:          2,
		LastUpdated:           "2024-03-07 12:00:00",
		AverageMessagesPerDay: 0.07,
	}, reports[1])
}

func TestBuildReport_SortedAscending(t *testing.T) {
	now := time.Now()
	counts := map[string]int{"Windows": 1, "Azure": 3, "Microsoft 365": 2}

	reports := BuildReport(counts, now)

	names := make([]string, 0, len(reports))
	for _, r := range reports {
		names = append(names, r.ServiceName)
	}
	assert.Equal(t, []string{"Azure", "Microsoft 365", "Windows"}, names)
}

func TestBuildReport_AverageBoundaries(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{count: 1, want: 0.03},
		{count: 30, want: 1.0},
		{count: 999, want: 33.3},
	}

	for _, tt := range tests {
		reports := BuildReport(map[string]int{"Teams": tt.count}, time.Now())
		assert.Len(t, reports, 1)
		assert.Equal(t, tt.want, reports[0].AverageMessagesPerDay)
	}
}

func TestBuildReport_Empty(t *testing.T) {
	assert.Empty(t, BuildReport(map[string]int{}, time.Now()))
}
