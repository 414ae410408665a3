package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/errors"
)

const compensationTimeout = 30 * time.Second

// compensationTracker records every blob written during one ingestion attempt and the draft
// row it touched, so a failed attempt can be rolled back to where it started.
type compensationTracker struct {
	mu        sync.Mutex
	blobs     []string
	listing   *entity.Listing
	snapshot  *entity.Listing
	committed bool

	store  service.BlobStore
	repo   repository.ListingRepository
	logger *slog.Logger
}

func newCompensationTracker(store service.BlobStore, repo repository.ListingRepository, logger *slog.Logger) *compensationTracker {
	return &compensationTracker{store: store, repo: repo, logger: logger}
}

// TrackBlob records a successful blob write. Safe for concurrent use.
func (c *compensationTracker) TrackBlob(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blobs = append(c.blobs, path)
}

// TrackCreated records a freshly inserted draft row. Undo deletes it.
func (c *compensationTracker) TrackCreated(listing *entity.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing = listing
	c.snapshot = nil
}

// TrackResumed records a pre-existing draft. Undo writes the snapshot back.
func (c *compensationTracker) TrackResumed(listing, snapshot *entity.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listing = listing
	c.snapshot = snapshot
}

// Blobs returns the tracked paths.
func (c *compensationTracker) Blobs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.blobs...)
}

// Commit marks the attempt as durable. UndoAll becomes a no-op.
func (c *compensationTracker) Commit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = true
}

// UndoAll removes every tracked blob and deletes or restores the draft row.
// It runs on a context detached from the caller's cancellation so a disconnect still cleans up.
func (c *compensationTracker) UndoAll(ctx context.Context) error {
	c.mu.Lock()
	if c.committed {
		c.mu.Unlock()

		return nil
	}
	blobs := append([]string(nil), c.blobs...)
	listing, snapshot := c.listing, c.snapshot
	c.blobs = nil
	c.committed = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	var errs []error
	if len(blobs) > 0 {
		if err := c.store.Remove(ctx, blobs); err != nil {
			errs = append(errs, errors.Wrapf(err, "remove %d blobs", len(blobs)))
		}
	}

	if listing != nil {
		if snapshot == nil {
			if err := c.repo.Delete(ctx, listing.ID); err != nil && !errors.Is(err, repository.ErrListingNotFound) {
				errs = append(errs, errors.Wrap(err, "delete draft"))
			}
		} else if err := c.repo.Update(ctx, snapshot); err != nil {
			errs = append(errs, errors.Wrap(err, "restore draft"))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		attrs := []any{slog.Int("blobs", len(blobs)), slog.Any("error", err)}
		if listing != nil {
			attrs = append(attrs, slog.String("listing_id", listing.ID.String()))
		}
		c.logger.Error("Compensation incomplete", attrs...)
	}

	return err
}
