package entity

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/pkg/errors"
)

// GeneralAlbumName is the album that receives primary media files.
const GeneralAlbumName = "General"

// FileRecord describes one stored file referenced by a listing.
type FileRecord struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Hash string `json:"hash,omitempty"`
}

// UploadedFile is the result of one blob transfer. It only lives for the duration of an ingestion.
type UploadedFile struct {
	URL          string `json:"url"`
	Path         string `json:"path"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	Hash         string `json:"hash,omitempty"`
}

// Record converts the upload into the file record stored on the listing.
func (u *UploadedFile) Record(id string) FileRecord {
	name := u.OriginalName
	if name == "" {
		name = u.Filename
	}

	return FileRecord{
		ID:   id,
		URL:  u.URL,
		Path: u.Path,
		Name: name,
		Size: u.Size,
		Type: u.Type,
		Hash: u.Hash,
	}
}

// Album is a named, ordered collection of images.
type Album struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Images []FileRecord `json:"images"`
}

// Media groups a listing's visual assets.
type Media struct {
	Albums         []Album     `json:"albums"`
	Video          *FileRecord `json:"video"`
	YoutubeURL     string      `json:"youtubeUrl"`
	VirtualTourURL string      `json:"virtualTourUrl"`
}

type mediaAlias Media

// UnmarshalJSON reads both the albums layout and the legacy flat file list.
// A legacy list (either a bare array or an object with "files") becomes the General album.
func (m *Media) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Media{}

		return nil
	}

	if data[0] == '[' {
		var files []FileRecord
		if err := json.Unmarshal(data, &files); err != nil {
			return errors.Wrap(err, "decode legacy media list")
		}
		*m = Media{}
		m.adoptLegacyFiles(files)

		return nil
	}

	var wire struct {
		mediaAlias
		Files  []FileRecord `json:"files"`
		Images []FileRecord `json:"images"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "decode media")
	}
	*m = Media(wire.mediaAlias)
	m.adoptLegacyFiles(append(wire.Files, wire.Images...))

	return nil
}

func (m *Media) adoptLegacyFiles(files []FileRecord) {
	if len(files) == 0 {
		return
	}
	general := m.GeneralAlbum()
	general.Images = append(general.Images, files...)
}

// GeneralAlbum returns the General album, creating it at the front if missing.
func (m *Media) GeneralAlbum() *Album {
	for i := range m.Albums {
		if m.Albums[i].Name == GeneralAlbumName {
			return &m.Albums[i]
		}
	}
	m.Albums = slices.Insert(m.Albums, 0, Album{ID: "general", Name: GeneralAlbumName, Images: []FileRecord{}})

	return &m.Albums[0]
}

// AlbumByName returns the album with the given name, appending a new one if missing.
func (m *Media) AlbumByName(id, name string) *Album {
	if name == "" || name == GeneralAlbumName {
		return m.GeneralAlbum()
	}
	for i := range m.Albums {
		if m.Albums[i].Name == name {
			return &m.Albums[i]
		}
	}
	m.Albums = append(m.Albums, Album{ID: id, Name: name, Images: []FileRecord{}})

	return &m.Albums[len(m.Albums)-1]
}

// Album returns the album with the given name without creating it. An empty name means General.
func (m *Media) Album(name string) *Album {
	if name == "" {
		name = GeneralAlbumName
	}
	for i := range m.Albums {
		if m.Albums[i].Name == name {
			return &m.Albums[i]
		}
	}

	return nil
}

// HasFiles reports whether any image or video is attached.
func (m *Media) HasFiles() bool {
	if m.Video != nil {
		return true
	}
	for _, a := range m.Albums {
		if len(a.Images) > 0 {
			return true
		}
	}

	return false
}

// ImageCount returns the number of images across all albums.
func (m *Media) ImageCount() int {
	n := 0
	for _, a := range m.Albums {
		n += len(a.Images)
	}

	return n
}

// Clone returns a deep copy.
func (m Media) Clone() Media {
	out := m
	out.Albums = make([]Album, len(m.Albums))
	for i, a := range m.Albums {
		a.Images = slices.Clone(a.Images)
		out.Albums[i] = a
	}
	if m.Video != nil {
		v := *m.Video
		out.Video = &v
	}

	return out
}

// Files returns every file record held by the media.
func (m *Media) Files() []FileRecord {
	files := make([]FileRecord, 0, m.ImageCount()+1)
	for _, a := range m.Albums {
		files = append(files, a.Images...)
	}
	if m.Video != nil {
		files = append(files, *m.Video)
	}

	return files
}
