// Package uploads receives a single multipart image, enforces the type and
// size limits, stores it under a collision-resistant name and then
// normalizes it (resize + re-encode). Normalization is best effort: when it
// fails the raw upload is served as-is.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rohits-web03/artfolio/internal/utils"

	// webp uploads are decodable even though they are re-encoded as JPEG.
	_ "golang.org/x/image/webp"
)

// Upload slots and their target directories under the upload root.
const (
	SlotProfilePhoto = "profilePhoto"
	SlotArtworkImage = "artworkImage"

	profileDir = "profiles"
	artworkDir = "artworks"

	// Profile photos become fixed thumbnails; artwork images keep their
	// aspect ratio below a maximum width and are never upscaled.
	profileSize     = 300
	artworkMaxWidth = 1200

	profileQuality = 90
	artworkQuality = 85
)

var (
	ErrNoFile               = errors.New("no file uploaded")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
)

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Pipeline struct {
	root     string
	maxBytes int64
}

// StoredFile describes a persisted upload. Filename is relative to the
// upload root and is what gets recorded in the database and served under
// the static /uploads path.
type StoredFile struct {
	Filename    string
	Path        string
	ContentType string
	Size        int64
}

// Discard deletes the stored file, for callers that reject the request
// after the upload already landed on disk.
func (f *StoredFile) Discard() {
	if err := os.Remove(f.Path); err != nil {
		log.Printf("Failed to discard upload %s: %v", f.Filename, err)
	}
}

func NewPipeline(root string, maxBytes int64) (*Pipeline, error) {
	for _, dir := range []string{profileDir, artworkDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Pipeline{root: root, maxBytes: maxBytes}, nil
}

// Receive pulls the single file for the given slot out of the request,
// filters it, stores it and normalizes it. ErrNoFile means the slot was
// empty, which some endpoints allow.
func (p *Pipeline) Receive(w http.ResponseWriter, r *http.Request, slot string) (*StoredFile, error) {
	dir, ok := slotDir(slot)
	if !ok {
		return nil, fmt.Errorf("unknown upload slot %q", slot)
	}

	// Bound the whole body; the extra megabyte covers multipart framing
	// and the accompanying form fields.
	r.Body = http.MaxBytesReader(w, r.Body, p.maxBytes+1<<20)
	if err := r.ParseMultipartForm(p.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrPayloadTooLarge
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(slot)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("read form file: %w", err)
	}
	defer file.Close()

	if header.Size > p.maxBytes {
		return nil, ErrPayloadTooLarge
	}

	// Sniff the real content type instead of trusting the part header.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, allowed := extByType[contentType]
	if !allowed {
		return nil, ErrUnsupportedMediaType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	suffix, err := utils.RandomSuffix(6)
	if err != nil {
		return nil, fmt.Errorf("generate filename: %w", err)
	}
	name := fmt.Sprintf("%s-%d-%s%s", slot, time.Now().UnixNano(), suffix, ext)
	relative := filepath.Join(dir, name)
	path := filepath.Join(p.root, relative)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	size, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("store upload: %w", err)
	}

	stored := &StoredFile{
		Filename:    filepath.ToSlash(relative),
		Path:        path,
		ContentType: contentType,
		Size:        size,
	}
	p.normalize(stored, slot)
	return stored, nil
}

// Remove deletes a previously stored file by its recorded filename.
func (p *Pipeline) Remove(filename string) error {
	path := filepath.Join(p.root, filepath.FromSlash(filename))
	if rel, err := filepath.Rel(p.root, path); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("filename escapes upload root: %q", filename)
	}
	return os.Remove(path)
}

func slotDir(slot string) (string, bool) {
	switch slot {
	case SlotProfilePhoto:
		return profileDir, true
	case SlotArtworkImage:
		return artworkDir, true
	}
	return "", false
}

// normalize re-encodes the upload as JPEG, cropping profile photos to a
// square thumbnail and capping artwork width. Failures leave the original
// file in place; the request continues with it.
func (p *Pipeline) normalize(f *StoredFile, slot string) {
	img, err := imaging.Open(f.Path)
	if err != nil {
		log.Printf("Image normalization failed for %s, keeping original: %v", f.Filename, err)
		return
	}

	quality := artworkQuality
	switch slot {
	case SlotProfilePhoto:
		img = imaging.Fill(img, profileSize, profileSize, imaging.Center, imaging.Lanczos)
		quality = profileQuality
	case SlotArtworkImage:
		if img.Bounds().Dx() > artworkMaxWidth {
			img = imaging.Resize(img, artworkMaxWidth, 0, imaging.Lanczos)
		}
	}

	outPath := strings.TrimSuffix(f.Path, filepath.Ext(f.Path)) + ".jpg"
	if err := imaging.Save(img, outPath, imaging.JPEGQuality(quality)); err != nil {
		log.Printf("Image normalization failed for %s, keeping original: %v", f.Filename, err)
		return
	}

	if outPath != f.Path {
		if err := os.Remove(f.Path); err != nil {
			log.Printf("Failed to remove raw upload %s: %v", f.Filename, err)
		}
	}

	info, err := os.Stat(outPath)
	if err == nil {
		f.Size = info.Size()
	}
	f.Path = outPath
	f.Filename = strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + ".jpg"
	f.ContentType = "image/jpeg"
}
