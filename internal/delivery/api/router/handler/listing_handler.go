package handler

import (
	"cmp"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"estate/internal/delivery/api/middleware"
	"estate/internal/delivery/api/response"
	deliverycontext "estate/internal/delivery/context"
	"estate/internal/errors"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Multipart field names of a listing submission.
const (
	fieldData               = "data"
	fieldSocialAmenities    = "social_amenities"
	fieldResumeListingID    = "resume_listing_id"
	fieldFinalListingStatus = "final_listing_status"
	fieldModel3D            = "model3d"
	fieldVideo              = "video"
	fieldFloorPlan          = "floorPlan"

	prefixMediaFile      = "mediaFile_"
	prefixAdditionalFile = "additionalFile_"
	prefixAlbum          = "album_"
	albumImageInfix      = "_image_"
	albumNameSuffix      = "_name"
)

// ListingHandlerParams holds dependencies for ListingHandler, injected by Fx.
type ListingHandlerParams struct {
	fx.In

	ListingUC usecase.ListingUsecase
	Logger    *slog.Logger
}

// ListingHandler serves listing ingestion and owner operations
type ListingHandler struct {
	listingUC usecase.ListingUsecase
	logger    *slog.Logger
}

// NewListingHandler is the constructor for ListingHandler
func NewListingHandler(params ListingHandlerParams) *ListingHandler {
	return &ListingHandler{
		listingUC: params.ListingUC,
		logger:    params.Logger,
	}
}

type listingIDParam struct {
	ID string `param:"id" validate:"required,uuid"`
}

// IngestListing handles a multipart listing submission.
// The bearer token is forwarded untouched; the pipeline authenticates it.
func (h *ListingHandler) IngestListing(c echo.Context) error {
	form, err := c.MultipartForm()
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		form = &multipart.Form{}
	case err != nil:
		return response.BadRequest(c, "INVALID_INPUT", "Invalid multipart form")
	default:
		defer func() { _ = form.RemoveAll() }()
	}

	input, err := bindIngestInput(form)
	if err != nil {
		return response.BadRequestWithDetails(c, "INVALID_INPUT", "Invalid listing attachment", err.Error())
	}
	input.BearerToken = c.Request().Header.Get(echo.HeaderAuthorization)
	input.RequestID = deliverycontext.GetRequestID(c)

	result, err := h.listingUC.IngestListing(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	message := "Listing created successfully"
	if result.Resumed {
		message = "Listing draft completed successfully"
	}

	return response.Success(c, http.StatusCreated, &IngestView{
		Listing:  newListingView(result.Listing),
		Resumed:  result.Resumed,
		Warnings: result.Warnings,
	}, message)
}

// GetListing returns one of the caller's listings, drafts included
func (h *ListingHandler) GetListing(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid user ID in token")
	}
	listingID, err := bindListingID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing ID")
	}

	listing, err := h.listingUC.GetListing(c.Request().Context(), userID, listingID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newListingView(listing), "Listing retrieved successfully")
}

// DeleteListing removes one of the caller's listings
func (h *ListingHandler) DeleteListing(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid user ID in token")
	}
	listingID, err := bindListingID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing ID")
	}

	if err := h.listingUC.DeleteListing(c.Request().Context(), userID, listingID, deliverycontext.GetRequestID(c)); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": listingID.String()}, "Listing deleted successfully")
}

// GenerateListingQR returns the listing share code as a PNG image
func (h *ListingHandler) GenerateListingQR(c echo.Context) error {
	listingID, err := bindListingID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid listing ID")
	}

	png, err := h.listingUC.GenerateListingQR(c.Request().Context(), listingID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func bindListingID(c echo.Context) (uuid.UUID, error) {
	var param listingIDParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &param); err != nil {
		return uuid.Nil, errors.WithStack(err)
	}
	if err := c.Validate(&param); err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(param.ID)

	return id, errors.WithStack(err)
}

// bindIngestInput maps the multipart form onto the pipeline input, keeping submission order by index.
func bindIngestInput(form *multipart.Form) (*usecase.IngestListingInput, error) {
	input := &usecase.IngestListingInput{
		DataJSON:            []byte(formValue(form, fieldData)),
		ResumeListingID:     formValue(form, fieldResumeListingID),
		FinalListingStatus:  formValue(form, fieldFinalListingStatus),
		SocialAmenitiesJSON: []byte(formValue(form, fieldSocialAmenities)),
	}
	if len(input.SocialAmenitiesJSON) == 0 {
		input.SocialAmenitiesJSON = nil
	}

	var err error
	if input.MediaFiles, err = indexedParts(form, prefixMediaFile); err != nil {
		return nil, err
	}
	if input.AdditionalFiles, err = indexedParts(form, prefixAdditionalFile); err != nil {
		return nil, err
	}
	if input.Albums, err = albumParts(form); err != nil {
		return nil, err
	}
	if input.Model3D, err = singlePart(form, fieldModel3D); err != nil {
		return nil, err
	}
	if input.Video, err = singlePart(form, fieldVideo); err != nil {
		return nil, err
	}
	if input.FloorPlan, err = singlePart(form, fieldFloorPlan); err != nil {
		return nil, err
	}

	return input, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}

	return ""
}

type indexedPart struct {
	index int
	part  *usecase.FilePart
}

func indexedParts(form *multipart.Form, prefix string) ([]*usecase.FilePart, error) {
	var found []indexedPart
	for key, headers := range form.File {
		suffix, ok := strings.CutPrefix(key, prefix)
		if !ok || len(headers) == 0 {
			continue
		}
		idx, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		part, err := readPart(key, headers[0])
		if err != nil {
			return nil, err
		}
		found = append(found, indexedPart{index: idx, part: part})
	}

	return sortParts(found), nil
}

func albumParts(form *multipart.Form) ([]*usecase.AlbumUpload, error) {
	albums := make(map[int][]indexedPart)
	for key, headers := range form.File {
		rest, ok := strings.CutPrefix(key, prefixAlbum)
		if !ok || len(headers) == 0 {
			continue
		}
		albumStr, imageStr, ok := strings.Cut(rest, albumImageInfix)
		if !ok {
			continue
		}
		albumIdx, err := strconv.Atoi(albumStr)
		if err != nil {
			continue
		}
		imageIdx, err := strconv.Atoi(imageStr)
		if err != nil {
			continue
		}
		part, err := readPart(key, headers[0])
		if err != nil {
			return nil, err
		}
		albums[albumIdx] = append(albums[albumIdx], indexedPart{index: imageIdx, part: part})
	}

	out := make([]*usecase.AlbumUpload, 0, len(albums))
	for idx, images := range albums {
		out = append(out, &usecase.AlbumUpload{
			Index:  idx,
			Name:   strings.TrimSpace(formValue(form, prefixAlbum+strconv.Itoa(idx)+albumNameSuffix)),
			Images: sortParts(images),
		})
	}
	slices.SortFunc(out, func(a, b *usecase.AlbumUpload) int {
		return cmp.Compare(a.Index, b.Index)
	})

	return out, nil
}

func singlePart(form *multipart.Form, key string) (*usecase.FilePart, error) {
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}

	return readPart(key, headers[0])
}

func sortParts(found []indexedPart) []*usecase.FilePart {
	slices.SortFunc(found, func(a, b indexedPart) int {
		return cmp.Compare(a.index, b.index)
	})
	parts := make([]*usecase.FilePart, len(found))
	for i, f := range found {
		parts[i] = f.part
	}

	return parts
}

func readPart(field string, header *multipart.FileHeader) (*usecase.FilePart, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", field)
	}

	return &usecase.FilePart{
		Field:       field,
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
