package photo

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/pkg/imaging"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/storage"
)

// pollInterval is the fallback cadence when no wake-ups arrive
const pollInterval = 30 * time.Second

// Worker drains the pending photo queue: downloads the original,
// resizes it in place, writes a thumbnail, and records the outcome.
type Worker struct {
	repo      Repository
	store     storage.Storage
	processor *imaging.Processor
	redis     *redis.Client
}

// NewWorker creates an image worker. redisClient may be nil; the worker
// then runs on the poll ticker alone.
func NewWorker(repo Repository, store storage.Storage, processor *imaging.Processor, redisClient *redis.Client) *Worker {
	return &Worker{repo: repo, store: store, processor: processor, redis: redisClient}
}

// Run processes photos until ctx is cancelled. Wake-ups on WakeChannel
// cut the latency between upload and processing; the ticker catches
// anything the pub/sub misses.
func (w *Worker) Run(ctx context.Context) {
	wake := make(chan struct{}, 1)
	if w.redis != nil {
		go w.subscribe(ctx, wake)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	w.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
			w.drain(ctx)
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) subscribe(ctx context.Context, wake chan<- struct{}) {
	sub := w.redis.Subscribe(ctx, WakeChannel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.Channel():
			if !ok {
				return
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

// drain claims and processes photos until the queue is empty
func (w *Worker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		p, err := w.repo.ClaimNextPending(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to claim pending photo")
			return
		}
		if p == nil {
			return
		}

		if err := w.process(ctx, p); err != nil {
			log.Warn().
				Err(err).
				Str("photo_id", p.ID.String()).
				Int("attempts", p.Attempts).
				Msg("Photo processing failed")
			if markErr := w.repo.MarkFailed(ctx, p.ID, err.Error()); markErr != nil {
				log.Error().Err(markErr).Str("photo_id", p.ID.String()).Msg("Failed to record photo failure")
			}
			continue
		}

		log.Info().
			Str("photo_id", p.ID.String()).
			Str("listing_id", p.ListingID.String()).
			Msg("Photo processed")
	}
}

func (w *Worker) process(ctx context.Context, p *Photo) error {
	original, err := w.store.Get(ctx, p.Key)
	if err != nil {
		return err
	}
	defer original.Close()

	processed, err := w.processor.Process(original, p.Key)
	if err != nil {
		return err
	}

	// Overwrite the original in place so the public URL stays stable
	if err := w.store.Put(ctx, p.Key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return err
	}

	thumbKey := thumbKeyFor(p.Key)
	if err := w.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return err
	}

	return w.repo.MarkDone(ctx, p.ID, thumbKey)
}

// thumbKeyFor derives the thumbnail key from the original key:
// listings/<id>/<photo>.jpg -> listings/<id>/<photo>_thumb.jpg
func thumbKeyFor(key string) string {
	if idx := strings.LastIndex(key, "."); idx != -1 {
		return key[:idx] + "_thumb" + key[idx:]
	}
	return key + "_thumb"
}
