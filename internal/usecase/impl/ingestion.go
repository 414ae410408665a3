package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/usecase"
	"estate/internal/util"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Pipeline steps, in execution order.
const (
	stepStart            = "START"
	stepResolveDraft     = "RESOLVE_DRAFT"
	stepValidate         = "VALIDATE"
	stepPersistDraft     = "PERSIST_DRAFT"
	stepUploadAssets     = "UPLOAD_ASSETS"
	stepMergeMedia       = "MERGE_MEDIA"
	stepProcessPricing   = "PROCESS_PRICING"
	stepPersistFull      = "PERSIST_FULL"
	stepSocialAmenities  = "SOCIAL_AMENITIES"
	stepUpdateAggregates = "UPDATE_AGGREGATES"
	stepFinalize         = "FINALIZE"
	stepNotifyAnalytics  = "NOTIFY_ANALYTICS"
)

const bearerScheme = "Bearer"

// Warnings returned with a successful ingestion.
const (
	warnPricingUnavailable  = "pricing conversion unavailable; estimated revenue left empty"
	warnAmenitiesMalformed  = "social_amenities is not valid JSON and was ignored"
	warnAmenityPhotoSkipped = "some social amenity photos could not be cached"
	warnAmenitiesNotSaved   = "social amenities could not be saved"
	warnAggregatesDeferred  = "aggregate statistics will be refreshed asynchronously"
	warnReplacedNotRemoved  = "replaced files could not be removed"
)

// assetError names the form field whose transfer failed.
type assetError struct {
	Field string
	Err   error
}

func (e *assetError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *assetError) Unwrap() error {
	return e.Err
}

// ingestion is the state of one IngestListing call.
type ingestion struct {
	svc    *listingService
	input  *usecase.IngestListingInput
	logger *slog.Logger
	start  time.Time

	claims      *service.Claims
	listing     *entity.Listing
	resumed     bool
	payload     *listingPayload
	amenities   []entity.SocialAmenity
	finalStatus entity.ListingStatus
	tracker     *compensationTracker
	batch       *uploadBatch
	replaced    []string
	warnings    []string
}

func (in *ingestion) run(ctx context.Context) (*usecase.IngestListingResult, error) {
	if err := in.authenticate(); err != nil {
		return nil, err
	}
	if err := in.resolveDraft(ctx); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := in.checkDevelopment(ctx); err != nil {
		return nil, err
	}
	if err := in.persistDraft(ctx); err != nil {
		return nil, err
	}
	if err := in.uploadAssets(ctx); err != nil {
		return nil, err
	}

	in.replaced = mergeMedia(in.listing, in.batch)
	in.logger.Debug("Media merged",
		slog.String("step", stepMergeMedia),
		slog.String("listing_id", in.listing.ID.String()),
		slog.Int("albums", len(in.listing.Media.Albums)),
		slog.Int("images", in.listing.Media.ImageCount()),
	)

	in.processPricing(ctx)

	if err := in.persistFull(ctx); err != nil {
		return nil, err
	}

	in.cacheSocialAmenities(ctx)

	aggLogger := in.logger.With(slog.String("step", stepUpdateAggregates))
	if !in.svc.refreshDevelopmentStats(ctx, aggLogger, in.listing) {
		in.warn(warnAggregatesDeferred)
	}

	if err := in.finalize(ctx); err != nil {
		return nil, err
	}

	// Developer stats count finalized statuses only.
	if !in.svc.refreshDeveloperStats(ctx, aggLogger, in.listing) {
		in.warn(warnAggregatesDeferred)
	}

	in.svc.publish(ctx, in.logger.With(slog.String("step", stepNotifyAnalytics)), service.EventListingCreated, in.listing, in.input.RequestID)

	in.logger.Info("Listing ingested",
		slog.String("listing_id", in.listing.ID.String()),
		slog.Bool("resumed", in.resumed),
		slog.Int("files", in.batch.Count()),
		slog.String("listing_status", string(in.listing.Lifecycle.Status())),
		slog.String("duration", util.FormatDuration(in.svc.now().Sub(in.start))),
	)

	return &usecase.IngestListingResult{
		Listing:  in.listing,
		Resumed:  in.resumed,
		Warnings: in.warnings,
	}, nil
}

func (in *ingestion) authenticate() error {
	token := strings.TrimSpace(in.input.BearerToken)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, bearerScheme) {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, bearerScheme) {
		token = ""
	}
	if token == "" {
		return domainerrors.NewStageError(domainerrors.ErrUnauthenticated, stepStart, uuid.Nil, errors.New("missing bearer token"))
	}

	claims, err := in.svc.tokens.VerifyAccessToken(token)
	if err != nil {
		return domainerrors.NewStageError(domainerrors.ErrUnauthenticated, stepStart, uuid.Nil, err)
	}
	in.claims = claims
	in.logger = in.logger.With(slog.String("user_id", claims.UserID.String()))

	return nil
}

// resolveDraft picks up the caller's draft when the resume id names one. A miss starts fresh.
func (in *ingestion) resolveDraft(ctx context.Context) error {
	raw := strings.TrimSpace(in.input.ResumeListingID)
	if raw == "" {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		in.logger.Info("Resume id is not a listing id, starting fresh", slog.String("resume_listing_id", raw))

		return nil
	}

	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	draft, err := in.svc.listingRepo.FindResumableDraft(stepCtx, id, in.claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			in.logger.Info("No resumable draft, starting fresh", slog.String("resume_listing_id", raw))

			return nil
		}

		return domainerrors.NewStageError(domainerrors.ErrPersistence, stepResolveDraft, uuid.Nil, err)
	}

	in.listing = draft
	in.resumed = true

	return nil
}

func (in *ingestion) validate() error {
	payload, err := in.svc.decoder.Decode(in.input.DataJSON)
	if err == nil {
		err = in.checkAttachments()
	}
	if err == nil {
		in.finalStatus, err = resolveFinalStatus(in.input.FinalListingStatus, in.resumed)
	}
	if err != nil {
		kind := domainerrors.ErrInvalidInput
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			kind = kind.WithDetails(inputErr.Error())
		}

		return domainerrors.NewStageError(kind, stepValidate, in.resumeID(), err)
	}
	in.payload = payload

	if raw := strings.TrimSpace(string(in.input.SocialAmenitiesJSON)); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.amenities); err != nil {
			in.amenities = nil
			in.warn(warnAmenitiesMalformed)
			in.logger.Warn("Ignoring malformed social amenities", slog.Any("error", err))
		}
	}

	return nil
}

func (in *ingestion) checkAttachments() error {
	limits := in.svc.limits
	if n := len(in.input.MediaFiles); n > limits.MaxMediaFiles {
		return &InputError{Field: "mediaFile", Reason: fmt.Sprintf("at most %d files allowed, got %d", limits.MaxMediaFiles, n)}
	}
	if n := len(in.input.Albums); n > limits.MaxAlbums {
		return &InputError{Field: "album", Reason: fmt.Sprintf("at most %d albums allowed, got %d", limits.MaxAlbums, n)}
	}
	for _, a := range in.input.Albums {
		if n := len(a.Images); n > limits.MaxAlbumImages {
			return &InputError{
				Field:  fmt.Sprintf("album_%d_image", a.Index),
				Reason: fmt.Sprintf("at most %d images allowed, got %d", limits.MaxAlbumImages, n),
			}
		}
	}
	if n := len(in.input.AdditionalFiles); n > limits.MaxAdditionalFiles {
		return &InputError{Field: "additionalFile", Reason: fmt.Sprintf("at most %d files allowed, got %d", limits.MaxAdditionalFiles, n)}
	}

	for _, part := range in.parts() {
		if len(part.Data) == 0 {
			return &InputError{Field: part.Field, Reason: "file is empty"}
		}
		if int64(len(part.Data)) > in.svc.maxFileSize {
			return &InputError{Field: part.Field, Reason: "file exceeds " + util.FormatBytes(in.svc.maxFileSize)}
		}
	}

	return nil
}

// checkDevelopment makes sure a referenced development exists and belongs to the caller
// before anything is written.
func (in *ingestion) checkDevelopment(ctx context.Context) error {
	developmentID := in.payload.developmentID
	if developmentID == nil {
		return nil
	}

	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	development, err := in.svc.developmentRepo.FindByID(stepCtx, *developmentID)
	if err != nil {
		if errors.Is(err, repository.ErrDevelopmentNotFound) {
			inputErr := &InputError{Field: "development_id", Reason: "development not found"}

			return domainerrors.NewStageError(domainerrors.ErrInvalidInput.WithDetails(inputErr.Error()), stepValidate, in.resumeID(), inputErr)
		}

		return domainerrors.NewStageError(domainerrors.ErrPersistence, stepValidate, in.resumeID(), err)
	}
	if development.DeveloperID != in.claims.UserID {
		return domainerrors.NewStageError(domainerrors.ErrDevelopmentForbidden, stepValidate, in.resumeID(),
			errors.Errorf("development %s belongs to another developer", developmentID))
	}

	return nil
}

// parts lists every submitted file.
func (in *ingestion) parts() []*usecase.FilePart {
	var parts []*usecase.FilePart
	parts = append(parts, in.input.MediaFiles...)
	for _, a := range in.input.Albums {
		parts = append(parts, a.Images...)
	}
	parts = append(parts, in.input.AdditionalFiles...)
	for _, p := range []*usecase.FilePart{in.input.Model3D, in.input.Video, in.input.FloorPlan} {
		if p != nil {
			parts = append(parts, p)
		}
	}

	return parts
}

func resolveFinalStatus(raw string, resumed bool) (entity.ListingStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		if resumed {
			return entity.StatusDraft, nil
		}

		return entity.StatusActive, nil
	}

	status := entity.ListingStatus(raw)
	if !status.IsValid() {
		return "", &InputError{Field: "final_listing_status", Reason: fmt.Sprintf("unknown status %q", raw)}
	}

	return status, nil
}

// persistDraft is the commit point. From here on every failure compensates.
func (in *ingestion) persistDraft(ctx context.Context) error {
	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	in.tracker = newCompensationTracker(in.svc.blobs, in.svc.listingRepo, in.logger)

	if in.resumed {
		snapshot := in.listing.Clone()
		in.payload.apply(in.listing)
		in.listing.AccountType = in.claims.AccountType
		in.listing.Lifecycle = entity.Drafting()
		if err := in.svc.listingRepo.Update(stepCtx, in.listing); err != nil {
			return domainerrors.NewStageError(domainerrors.ErrPersistence, stepPersistDraft, in.listing.ID, err)
		}
		in.tracker.TrackResumed(in.listing, snapshot)
	} else {
		listing := &entity.Listing{
			ID:          uuid.New(),
			UserID:      in.claims.UserID,
			AccountType: in.claims.AccountType,
			Lifecycle:   entity.Drafting(),
		}
		in.payload.apply(listing)
		if err := in.svc.listingRepo.Create(stepCtx, listing); err != nil {
			return domainerrors.NewStageError(domainerrors.ErrPersistence, stepPersistDraft, uuid.Nil, err)
		}
		in.listing = listing
		in.tracker.TrackCreated(listing)
	}

	in.logger = in.logger.With(slog.String("listing_id", in.listing.ID.String()))
	in.logger.Debug("Draft persisted", slog.String("step", stepPersistDraft), slog.Bool("resumed", in.resumed))

	return nil
}

// uploadAssets stores every attachment group in order. Any failure undoes the whole attempt.
func (in *ingestion) uploadAssets(ctx context.Context) error {
	batch, err := in.transferGroups(ctx)
	if err != nil {
		in.compensate(ctx, stepUploadAssets, err)

		stageErr := domainerrors.NewStageError(domainerrors.ErrAssetUpload, stepUploadAssets, in.resumeID(), err)
		var assetErr *assetError
		if errors.As(err, &assetErr) {
			stageErr.ForAsset(assetErr.Field)
		}

		return stageErr
	}
	in.batch = batch

	return nil
}

func (in *ingestion) transferGroups(ctx context.Context) (*uploadBatch, error) {
	batch := &uploadBatch{}
	var err error

	if batch.Media, err = in.transferGroup(ctx, groupMedia, in.input.MediaFiles, in.knownHashes(groupMedia, "")); err != nil {
		return nil, err
	}
	for _, a := range in.input.Albums {
		files, err := in.transferGroup(ctx, groupAlbum, a.Images, in.knownHashes(groupAlbum, albumName(a.Index, a.Name)))
		if err != nil {
			return nil, err
		}
		batch.Albums = append(batch.Albums, albumBatch{Index: a.Index, Name: a.Name, Files: files})
	}
	if batch.Additional, err = in.transferGroup(ctx, groupAdditional, in.input.AdditionalFiles, in.knownHashes(groupAdditional, "")); err != nil {
		return nil, err
	}
	if batch.Model3D, err = in.transferOne(ctx, groupModel3D, in.input.Model3D); err != nil {
		return nil, err
	}
	if batch.Video, err = in.transferOne(ctx, groupVideo, in.input.Video); err != nil {
		return nil, err
	}
	if batch.FloorPlan, err = in.transferOne(ctx, groupFloorPlan, in.input.FloorPlan); err != nil {
		return nil, err
	}

	return batch, nil
}

// knownHashes returns the hashes already stored in the slot a group merges into.
// A resent file is only skipped when its copy sits in that same slot.
func (in *ingestion) knownHashes(group, album string) map[string]struct{} {
	l := in.listing
	single := func(f *entity.FileRecord) map[string]struct{} {
		if f == nil {
			return nil
		}

		return entity.HashSet(*f)
	}

	switch group {
	case groupMedia, groupAlbum:
		if a := l.Media.Album(album); a != nil {
			return entity.HashSet(a.Images...)
		}

		return nil
	case groupAdditional:
		return entity.HashSet(l.AdditionalFiles...)
	case groupModel3D:
		return single(l.Model3D)
	case groupVideo:
		return single(l.Media.Video)
	case groupFloorPlan:
		return single(l.FloorPlan)
	default:
		return nil
	}
}

func (in *ingestion) transferOne(ctx context.Context, group string, part *usecase.FilePart) (*entity.UploadedFile, error) {
	if part == nil {
		return nil, nil
	}
	files, err := in.transferGroup(ctx, group, []*usecase.FilePart{part}, in.knownHashes(group, ""))
	if err != nil || len(files) == 0 {
		return nil, err
	}

	return files[0], nil
}

// transferGroup uploads one group with bounded concurrency and keeps submission order.
// Files whose content is already attached to the draft are skipped.
func (in *ingestion) transferGroup(ctx context.Context, group string, parts []*usecase.FilePart, known map[string]struct{}) ([]*entity.UploadedFile, error) {
	if len(parts) == 0 {
		return nil, nil
	}

	dir := blobDir(in.listing.UserID, in.listing.ID, group)
	results := make([]*entity.UploadedFile, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.svc.limits.UploadConcurrency)
	for i, part := range parts {
		if _, ok := known[util.ContentHash(part.Data)]; ok {
			in.logger.Debug("Skipping file already attached", slog.String("field", part.Field))

			continue
		}
		g.Go(func() error {
			file, err := in.svc.transfer.Upload(gctx, dir, part)
			if err != nil {
				return &assetError{Field: part.Field, Err: err}
			}
			in.tracker.TrackBlob(file.Path)
			results[i] = file

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]*entity.UploadedFile, 0, len(results))
	for _, f := range results {
		if f != nil {
			files = append(files, f)
		}
	}

	return files, nil
}

// processPricing is best effort: a failed conversion leaves empty derived values.
func (in *ingestion) processPricing(ctx context.Context) {
	in.listing.EstimatedRevenue = entity.EstimatedRevenue{}
	in.listing.GlobalPrice = entity.GlobalPrice{}

	pricing := in.listing.Pricing
	if !pricing.HasPrice() {
		return
	}

	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	result, err := in.svc.converter.Convert(stepCtx, &service.ConversionRequest{
		Price:         pricing.Price.Float(),
		Currency:      pricing.Currency,
		PriceType:     pricing.PriceType,
		IdealDuration: pricing.IdealDuration.Float(),
		TimeSpan:      pricing.TimeSpan,
		UserID:        in.listing.UserID,
		AccountType:   in.listing.AccountType,
	})
	if err != nil {
		in.warn(warnPricingUnavailable)
		in.logger.Warn("Currency conversion failed",
			slog.String("step", stepProcessPricing),
			slog.String("currency", pricing.Currency),
			slog.Any("error", err),
		)

		return
	}

	in.listing.EstimatedRevenue = result.EstimatedRevenue
	in.listing.GlobalPrice = result.GlobalPrice
}

func (in *ingestion) persistFull(ctx context.Context) error {
	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	in.listing.Lifecycle = entity.Uploaded()
	if err := in.svc.listingRepo.Update(stepCtx, in.listing); err != nil {
		in.compensate(ctx, stepPersistFull, err)

		return domainerrors.NewStageError(domainerrors.ErrFinalization, stepPersistFull, in.resumeID(), err)
	}
	in.tracker.Commit()

	if len(in.replaced) > 0 {
		if err := in.svc.blobs.Remove(stepCtx, in.replaced); err != nil {
			in.warn(warnReplacedNotRemoved)
			in.logger.Warn("Failed to remove replaced files",
				slog.String("step", stepPersistFull),
				slog.Any("paths", in.replaced),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// cacheSocialAmenities stores a local copy of each amenity photo. A failed copy only
// drops that entry's cached photo.
func (in *ingestion) cacheSocialAmenities(ctx context.Context) {
	if in.amenities == nil {
		return
	}
	logger := in.logger.With(slog.String("step", stepSocialAmenities))

	dir := blobDir(in.listing.UserID, in.listing.ID, groupAmenities)
	var cached []string
	skipped := false
	for i := range in.amenities {
		a := &in.amenities[i]
		a.CachedPhoto, a.CachedPath = "", ""
		if strings.TrimSpace(a.PhotoURL) == "" {
			continue
		}

		file, err := in.svc.transfer.CacheRemote(ctx, dir, a.PhotoURL)
		if err != nil {
			skipped = true
			logger.Warn("Failed to cache amenity photo",
				slog.String("amenity", a.Name),
				slog.String("photo_url", a.PhotoURL),
				slog.Any("error", err),
			)

			continue
		}
		a.CachedPhoto, a.CachedPath = file.URL, file.Path
		cached = append(cached, file.Path)
	}
	if skipped {
		in.warn(warnAmenityPhotoSkipped)
	}

	previous := cachedAmenityPaths(in.listing.SocialAmenities)

	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	if err := in.svc.listingRepo.UpdateSocialAmenities(stepCtx, in.listing.ID, in.amenities); err != nil {
		in.warn(warnAmenitiesNotSaved)
		logger.Warn("Failed to save social amenities", slog.Any("error", err))
		in.removeQuietly(ctx, logger, cached)

		return
	}
	in.listing.SocialAmenities = in.amenities
	in.removeQuietly(ctx, logger, previous)
}

func cachedAmenityPaths(amenities []entity.SocialAmenity) []string {
	var paths []string
	for _, a := range amenities {
		if a.CachedPath != "" {
			paths = append(paths, a.CachedPath)
		}
	}

	return paths
}

// finalize marks the listing complete. On failure only the lifecycle is reverted: the stored
// files and fields are valid, so the listing is left as a resumable draft.
func (in *ingestion) finalize(ctx context.Context) error {
	stepCtx, cancel := in.stepContext(ctx)
	defer cancel()

	lifecycle := entity.Finalized(in.finalStatus)
	if err := in.svc.listingRepo.UpdateLifecycle(stepCtx, in.listing.ID, lifecycle); err != nil {
		revertCtx, revertCancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		defer revertCancel()

		if revertErr := in.svc.listingRepo.UpdateLifecycle(revertCtx, in.listing.ID, entity.Drafting()); revertErr != nil {
			in.logger.Error("Failed to revert listing to draft",
				slog.String("step", stepFinalize),
				slog.Any("error", revertErr),
			)
		} else {
			in.listing.Lifecycle = entity.Drafting()
		}

		return domainerrors.NewStageError(domainerrors.ErrFinalization, stepFinalize, in.listing.ID, err)
	}
	in.listing.Lifecycle = lifecycle

	return nil
}

func (in *ingestion) compensate(ctx context.Context, step string, cause error) {
	in.logger.Warn("Rolling back ingestion attempt",
		slog.String("step", step),
		slog.Int("blobs", len(in.tracker.Blobs())),
		slog.Any("error", cause),
	)
	// UndoAll logs its own failures.
	_ = in.tracker.UndoAll(ctx)
}

func (in *ingestion) removeQuietly(ctx context.Context, logger *slog.Logger, paths []string) {
	if len(paths) == 0 {
		return
	}
	if err := in.svc.blobs.Remove(context.WithoutCancel(ctx), paths); err != nil {
		logger.Warn("Failed to remove files", slog.Any("paths", paths), slog.Any("error", err))
	}
}

// resumeID is the id a caller can retry with: the draft's id when it survives the failure.
func (in *ingestion) resumeID() uuid.UUID {
	if in.resumed && in.listing != nil {
		return in.listing.ID
	}

	return uuid.Nil
}

func (in *ingestion) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if in.svc.limits.StepTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, in.svc.limits.StepTimeout)
}

func (in *ingestion) warn(msg string) {
	if slices.Contains(in.warnings, msg) {
		return
	}
	in.warnings = append(in.warnings, msg)
}
