package impl

import (
	"fmt"
	"strings"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// albumBatch holds the files uploaded for one submitted album.
type albumBatch struct {
	Index int
	Name  string
	Files []*entity.UploadedFile
}

// uploadBatch is everything stored during one UPLOAD_ASSETS run, in submission order.
type uploadBatch struct {
	Media      []*entity.UploadedFile
	Albums     []albumBatch
	Additional []*entity.UploadedFile
	Model3D    *entity.UploadedFile
	Video      *entity.UploadedFile
	FloorPlan  *entity.UploadedFile
}

// Count returns the number of stored files.
func (b *uploadBatch) Count() int {
	n := len(b.Media) + len(b.Additional)
	for _, a := range b.Albums {
		n += len(a.Files)
	}
	for _, f := range []*entity.UploadedFile{b.Model3D, b.Video, b.FloorPlan} {
		if f != nil {
			n++
		}
	}

	return n
}

// albumName is the submitted name, or a positional default.
func albumName(index int, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}

	return fmt.Sprintf("Album %d", index+1)
}

// mergeMedia folds a batch into the listing's media and file fields and returns the
// paths of single-file assets that were replaced.
func mergeMedia(l *entity.Listing, batch *uploadBatch) []string {
	var replaced []string

	if len(batch.Media) > 0 {
		general := l.Media.GeneralAlbum()
		general.Images = append(general.Images, records(batch.Media)...)
	}

	for _, a := range batch.Albums {
		if len(a.Files) == 0 {
			continue
		}
		album := l.Media.AlbumByName(uuid.NewString(), albumName(a.Index, a.Name))
		album.Images = append(album.Images, records(a.Files)...)
	}

	l.AdditionalFiles = append(l.AdditionalFiles, records(batch.Additional)...)

	if batch.Model3D != nil {
		replaced = appendPath(replaced, l.Model3D)
		l.Model3D = record(batch.Model3D)
	}
	if batch.Video != nil {
		replaced = appendPath(replaced, l.Media.Video)
		l.Media.Video = record(batch.Video)
	}
	if batch.FloorPlan != nil {
		replaced = appendPath(replaced, l.FloorPlan)
		l.FloorPlan = record(batch.FloorPlan)
	}

	if l.Media.HasFiles() {
		l.Media.GeneralAlbum()
	}

	return replaced
}

func record(f *entity.UploadedFile) *entity.FileRecord {
	r := f.Record(uuid.NewString())

	return &r
}

func records(files []*entity.UploadedFile) []entity.FileRecord {
	out := make([]entity.FileRecord, 0, len(files))
	for _, f := range files {
		out = append(out, f.Record(uuid.NewString()))
	}

	return out
}

func appendPath(paths []string, old *entity.FileRecord) []string {
	if old == nil || old.Path == "" {
		return paths
	}

	return append(paths, old.Path)
}
