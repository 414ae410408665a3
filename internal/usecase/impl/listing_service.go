package impl

import (
	"context"
	"log/slog"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/gommon/bytes"
	"go.uber.org/fx"
)

type listingService struct {
	listingRepo     repository.ListingRepository
	developmentRepo repository.DevelopmentRepository
	blobs       service.BlobStore
	tokens      service.TokenVerifier
	converter   service.CurrencyConverter
	publisher   service.EventPublisher
	qrCode      service.QRCodeService
	stats       usecase.StatsUsecase
	transfer    *fileTransfer
	decoder     *payloadDecoder
	limits      *config.IngestionConfig
	maxFileSize int64
	logger      *slog.Logger
	now         func() time.Time
}

// ListingServiceParams holds dependencies for ListingService, injected by Fx.
type ListingServiceParams struct {
	fx.In

	Config        *config.Config
	ListingRepo     repository.ListingRepository
	DevelopmentRepo repository.DevelopmentRepository
	BlobStore     service.BlobStore
	Downloader    service.Downloader
	TokenVerifier service.TokenVerifier
	Converter     service.CurrencyConverter
	Publisher     service.EventPublisher
	QRCode        service.QRCodeService
	Stats         usecase.StatsUsecase
	Logger        *slog.Logger
}

// NewListingService creates a new listing service instance
func NewListingService(params ListingServiceParams) (usecase.ListingUsecase, error) {
	decoder, err := newPayloadDecoder()
	if err != nil {
		return nil, err
	}

	limits := config.WithIngestionDefaults(params.Config.Ingestion)
	maxFileSize, err := bytes.Parse(limits.MaxFileSize)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ingestion.maxFileSize %q", limits.MaxFileSize)
	}

	return &listingService{
		listingRepo:     params.ListingRepo,
		developmentRepo: params.DevelopmentRepo,
		blobs:       params.BlobStore,
		tokens:      params.TokenVerifier,
		converter:   params.Converter,
		publisher:   params.Publisher,
		qrCode:      params.QRCode,
		stats:       params.Stats,
		transfer: &fileTransfer{
			blobs:      params.BlobStore,
			downloader: params.Downloader,
			timeout:    limits.StepTimeout,
		},
		decoder:     decoder,
		limits:      limits,
		maxFileSize: maxFileSize,
		logger:      params.Logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// IngestListing runs the draft-first pipeline. Any failure after the draft is written
// leaves storage as it was before the call, except a finalize failure which leaves a resumable draft.
func (s *listingService) IngestListing(ctx context.Context, input *usecase.IngestListingInput) (*usecase.IngestListingResult, error) {
	in := &ingestion{
		svc:    s,
		input:  input,
		logger: deliverycontext.GetLoggerOrDefault(ctx, s.logger),
		start:  s.now(),
	}

	return in.run(ctx)
}

// GetListing returns a listing owned by userID.
func (s *listingService) GetListing(ctx context.Context, userID, listingID uuid.UUID) (*entity.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find listing")
	}
	if listing.UserID != userID {
		return nil, domainerrors.ErrListingForbidden
	}

	return listing, nil
}

// DeleteListing removes the row, then its files, then refreshes the aggregates it counted toward.
// File removal is best effort once the row is gone.
func (s *listingService) DeleteListing(ctx context.Context, userID, listingID uuid.UUID, requestID string) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	listing, err := s.GetListing(ctx, userID, listingID)
	if err != nil {
		return err
	}

	if err := s.listingRepo.Delete(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return domainerrors.ErrListingNotFound
		}

		return errors.Wrap(err, "failed to delete listing")
	}

	if paths := listing.Blobs(); len(paths) > 0 {
		if err := s.blobs.Remove(context.WithoutCancel(ctx), paths); err != nil {
			logger.Warn("Failed to remove files of deleted listing",
				slog.String("listing_id", listingID.String()),
				slog.Int("files", len(paths)),
				slog.Any("error", err),
			)
		}
	}

	s.refreshDevelopmentStats(ctx, logger, listing)
	s.refreshDeveloperStats(ctx, logger, listing)
	s.publish(ctx, logger, service.EventListingDeleted, listing, requestID)

	logger.Info("Listing deleted",
		slog.String("listing_id", listingID.String()),
		slog.Int("files", len(listing.Blobs())),
	)

	return nil
}

// GenerateListingQR renders the share code of an existing listing.
func (s *listingService) GenerateListingQR(ctx context.Context, listingID uuid.UUID) ([]byte, error) {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, domainerrors.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find listing")
	}

	png, err := s.qrCode.GenerateListingQR(listingID)
	if err != nil {
		return nil, domainerrors.ErrQRCodeGeneration.WrapMessage(err.Error())
	}

	return png, nil
}

// refreshDevelopmentStats recomputes the stats of the listing's development, if any.
// Failures are logged only. It reports whether the recompute succeeded or was not needed.
func (s *listingService) refreshDevelopmentStats(ctx context.Context, logger *slog.Logger, listing *entity.Listing) bool {
	if listing.DevelopmentID != nil {
		if _, err := s.stats.RecomputeDevelopmentStats(ctx, *listing.DevelopmentID); err != nil {
			logger.Warn("Development stats recompute failed",
				slog.String("listing_id", listing.ID.String()),
				slog.String("development_id", listing.DevelopmentID.String()),
				slog.Any("error", err),
			)

			return false
		}
	}

	return true
}

// refreshDeveloperStats recomputes the owner's developer stats for developer accounts.
// Failures are logged only.
func (s *listingService) refreshDeveloperStats(ctx context.Context, logger *slog.Logger, listing *entity.Listing) bool {
	if listing.IsDeveloperOwned() {
		if _, err := s.stats.RecomputeDeveloperStats(ctx, listing.UserID); err != nil {
			logger.Warn("Developer stats recompute failed",
				slog.String("listing_id", listing.ID.String()),
				slog.String("developer_id", listing.UserID.String()),
				slog.Any("error", err),
			)

			return false
		}
	}

	return true
}

// publish emits a listing lifecycle event. Failures are logged only.
func (s *listingService) publish(ctx context.Context, logger *slog.Logger, name string, listing *entity.Listing, requestID string) {
	event := &service.ListingEvent{
		RequestID:     requestID,
		Event:         name,
		ListingID:     listing.ID.String(),
		UserID:        listing.UserID.String(),
		AccountType:   listing.AccountType,
		ListingStatus: string(listing.Lifecycle.Status()),
		OccurredAt:    s.now(),
	}
	if listing.DevelopmentID != nil {
		event.DevelopmentID = listing.DevelopmentID.String()
	}

	if err := s.publisher.PublishListingEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish listing event",
			slog.String("event", name),
			slog.String("listing_id", event.ListingID),
			slog.Any("error", err),
		)
	}
}
