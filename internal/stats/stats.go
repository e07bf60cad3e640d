package stats

import (
	"math"
	"sort"
	"time"

	"github.com/opsdash/mcsync/internal/models"
	"github.com/opsdash/mcsync/internal/transform"
)

// averageWindowDays is the fixed window used for the average-per-day metric.
// It is a documented heuristic, not derived from the actual date range of
// the fetched messages.
const averageWindowDays = 30

// Tally counts how many messages list each service. A message increments
// every service it lists, once each. Services never seen have no entry.
func Tally(msgs []models.Message) map[string]int {
	counts := make(map[string]int)
	for _, msg := range msgs {
		for _, svc := range msg.Services {
			counts[svc]++
		}
	}
	return counts
}

// BuildReport turns a tally into report entries sorted ascending by service
// name. Every entry carries the same run timestamp.
func BuildReport(counts map[string]int, now time.Time) []models.ServiceReport {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	stamp := now.Format(transform.TimestampLayout)
	reports := make([]models.ServiceReport, 0, len(names))
	for _, name := range names {
		reports = append(reports, models.ServiceReport{
			ServiceName:           name,
			MessageCount:          counts[name],
			LastUpdated:           stamp,
			AverageMessagesPerDay: roundTo2(float64(counts[name]) / averageWindowDays),
		})
	}
	return reports
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
