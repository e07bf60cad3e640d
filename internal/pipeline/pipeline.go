package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opsdash/mcsync/internal/models"
	"github.com/opsdash/mcsync/internal/stats"
	"github.com/opsdash/mcsync/internal/storage"
	"github.com/opsdash/mcsync/internal/transform"
)

// Stage-level failures that abort a run. Callers check these with
// errors.Is; the wrapped cause is preserved.
var (
	ErrAuth           = errors.New("authentication failed")
	ErrFetch          = errors.New("fetch failed")
	ErrAggregateWrite = errors.New("aggregate write failed")
)

// Source is an authenticated handle to the message center feed, scoped to
// one run.
type Source interface {
	FetchMessages(ctx context.Context) ([]models.Message, error)
	Disconnect() error
}

// ConnectFunc opens a Source for the duration of one run.
type ConnectFunc func(ctx context.Context) (Source, error)

// Runner drives one sync run: connect, fetch, normalize and stamp every
// message, persist (per-message archive, aggregate set, service report),
// disconnect. Archive and report failures are logged and recovered;
// connect, fetch, and aggregate-write failures abort the run. Disconnect
// always runs once a connection exists, whatever else happens.
type Runner struct {
	connect   ConnectFunc
	store     storage.Store
	outputDir string
	now       func() time.Time
}

// New creates a runner. outputDir is only reported in the summary; the
// store decides where data actually lands.
func New(connect ConnectFunc, store storage.Store, outputDir string) *Runner {
	return &Runner{
		connect:   connect,
		store:     store,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Run executes one full sync and returns its summary. On a fatal stage
// failure the summary is nil and the returned error wraps the stage
// sentinel.
func (r *Runner) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		OutputDir: r.outputDir,
		StartedAt: r.now(),
	}

	log.Info().Msg("Connecting to message center")
	src, err := r.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}
	defer func() {
		if derr := src.Disconnect(); derr != nil {
			log.Warn().Err(derr).Msg("Disconnect failed")
		}
	}()

	log.Info().Msg("Fetching announcements")
	msgs, err := src.FetchMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	summary.MessagesFetched = len(msgs)
	log.Info().Int("count", len(msgs)).Msg("Fetched announcements")

	// One wall-clock reading stamps every message and the report.
	runStamp := r.now()
	for i := range msgs {
		transform.Normalize(&msgs[i])
		transform.Stamp(&msgs[i], runStamp)
	}
	summary.MessagesProcessed = len(msgs)

	for i := range msgs {
		if aerr := r.store.WriteArchiveEntry(ctx, msgs[i]); aerr != nil {
			summary.ArchiveFailures++
			log.Warn().Err(aerr).Str("id", msgs[i].ID).Msg("Archive write failed, continuing")
		}
	}

	if err := r.store.WriteMessages(ctx, msgs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregateWrite, err)
	}

	counts := stats.Tally(msgs)
	reports := stats.BuildReport(counts, runStamp)
	summary.ServicesSeen = len(reports)
	if rerr := r.store.WriteReport(ctx, reports); rerr != nil {
		log.Error().Err(rerr).Msg("Report write failed, run still completes")
	}

	summary.FinishedAt = r.now()
	log.Info().
		Int("messages", summary.MessagesProcessed).
		Int("services", summary.ServicesSeen).
		Int("archive_failures", summary.ArchiveFailures).
		Str("output", summary.OutputDir).
		Msg("Run complete")

	return summary, nil
}
