package impl

import (
	"context"
	"net/http"
	"path"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/domain/service"
	"estate/internal/errors"
	"estate/internal/usecase"
	"estate/internal/util"

	"github.com/google/uuid"
)

// Asset groups in upload order.
const (
	groupMedia      = "media"
	groupAlbum      = "album"
	groupAdditional = "additional"
	groupModel3D    = "model3d"
	groupVideo      = "video"
	groupFloorPlan  = "floorPlan"
	groupAmenities  = "amenities"
)

const contentHashPrefixLen = 16

// fileTransfer moves single files into the blob store under deterministic paths.
type fileTransfer struct {
	blobs      service.BlobStore
	downloader service.Downloader
	timeout    time.Duration
}

// blobDir is the storage prefix of one listing's files.
func blobDir(userID, listingID uuid.UUID, group string) string {
	return path.Join("listings", userID.String(), listingID.String(), group)
}

// blobName is content-addressed with a random suffix so equal files sent twice never collide.
func blobName(hash, filename string) string {
	return hash[:contentHashPrefixLen] + "-" + uuid.NewString() + util.SafeExtension(filename)
}

// Upload stores one submitted file.
func (t *fileTransfer) Upload(ctx context.Context, dir string, part *usecase.FilePart) (*entity.UploadedFile, error) {
	if part == nil || len(part.Data) == 0 {
		return nil, errors.New("empty file")
	}

	return t.put(ctx, dir, part.Filename, part.ContentType, part.Data)
}

// CacheRemote downloads url and stores a copy.
func (t *fileTransfer) CacheRemote(ctx context.Context, dir, url string) (*entity.UploadedFile, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()

	data, contentType, err := t.downloader.Download(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", url)
	}
	if len(data) == 0 {
		return nil, errors.Errorf("download %s: empty body", url)
	}

	return t.put(ctx, dir, path.Base(url), contentType, data)
}

func (t *fileTransfer) put(ctx context.Context, dir, filename, contentType string, data []byte) (*entity.UploadedFile, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	hash := util.ContentHash(data)
	name := blobName(hash, filename)
	blobPath := path.Join(dir, name)

	url, err := t.blobs.Upload(ctx, blobPath, data, contentType)
	if err != nil {
		return nil, errors.Wrapf(err, "upload %s", blobPath)
	}

	return &entity.UploadedFile{
		URL:          url,
		Path:         blobPath,
		Filename:     name,
		OriginalName: filename,
		Size:         int64(len(data)),
		Type:         contentType,
		Hash:         hash,
	}, nil
}

func (t *fileTransfer) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, t.timeout)
}
