package uploads

import (
	"bytes"
	"image"
	"image/png"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, slot, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(slot, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func filesUnder(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func newTestPipeline(t *testing.T, maxBytes int64) (*Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	p, err := NewPipeline(root, maxBytes)
	require.NoError(t, err)
	return p, root
}

func TestReceiveRejectsOversizedFile(t *testing.T) {
	p, root := newTestPipeline(t, 1024)

	// The size check runs before the type check, so any 4KB payload will do.
	req := multipartRequest(t, SlotArtworkImage, "big.png", bytes.Repeat([]byte{0x1}, 4096))
	_, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)

	require.ErrorIs(t, err, ErrPayloadTooLarge)
	require.Empty(t, filesUnder(t, root), "no file may remain on disk after a size rejection")
}

func TestReceiveRejectsNonImage(t *testing.T) {
	p, root := newTestPipeline(t, 10<<20)

	req := multipartRequest(t, SlotArtworkImage, "notes.txt", []byte("definitely not an image"))
	_, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)

	require.ErrorIs(t, err, ErrUnsupportedMediaType)
	require.Empty(t, filesUnder(t, root))
}

func TestReceiveReportsMissingFile(t *testing.T) {
	p, _ := newTestPipeline(t, 10<<20)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "no file here"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)
	require.ErrorIs(t, err, ErrNoFile)
}

func TestReceiveRejectsUnknownSlot(t *testing.T) {
	p, _ := newTestPipeline(t, 10<<20)
	req := multipartRequest(t, "attachment", "a.png", pngBytes(t, 10, 10))

	_, err := p.Receive(httptest.NewRecorder(), req, "attachment")
	require.Error(t, err)
}

func TestProfilePhotoNormalization(t *testing.T) {
	p, root := newTestPipeline(t, 10<<20)

	req := multipartRequest(t, SlotProfilePhoto, "me.png", pngBytes(t, 600, 400))
	stored, err := p.Receive(httptest.NewRecorder(), req, SlotProfilePhoto)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(stored.Filename, "profiles/"))
	require.True(t, strings.HasSuffix(stored.Filename, ".jpg"))
	require.Equal(t, "image/jpeg", stored.ContentType)

	// Exactly one file: the raw .png upload was deleted after re-encoding.
	files := filesUnder(t, root)
	require.Len(t, files, 1)
	require.Equal(t, stored.Path, files[0])

	f, err := os.Open(stored.Path)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := image.Decode(f)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, profileSize, img.Bounds().Dx())
	require.Equal(t, profileSize, img.Bounds().Dy())
}

func TestArtworkImageCappedWidth(t *testing.T) {
	p, _ := newTestPipeline(t, 10<<20)

	req := multipartRequest(t, SlotArtworkImage, "wide.png", pngBytes(t, 2400, 1200))
	stored, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.Filename, "artworks/"))

	f, err := os.Open(stored.Path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	require.Equal(t, artworkMaxWidth, img.Bounds().Dx())
	require.Equal(t, 600, img.Bounds().Dy(), "aspect ratio preserved")
}

func TestArtworkImageNeverUpscaled(t *testing.T) {
	p, _ := newTestPipeline(t, 10<<20)

	req := multipartRequest(t, SlotArtworkImage, "small.png", pngBytes(t, 800, 600))
	stored, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)
	require.NoError(t, err)

	f, err := os.Open(stored.Path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, 600, img.Bounds().Dy())
}

func TestNormalizationFailureFallsBackToOriginal(t *testing.T) {
	p, root := newTestPipeline(t, 10<<20)

	// Valid PNG signature followed by garbage: passes the type filter but
	// cannot be decoded.
	corrupt := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0x42}, 512)...)
	req := multipartRequest(t, SlotArtworkImage, "broken.png", corrupt)

	stored, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)
	require.NoError(t, err, "normalization failure must not fail the request")
	require.True(t, strings.HasSuffix(stored.Filename, ".png"))
	require.Equal(t, "image/png", stored.ContentType)

	files := filesUnder(t, root)
	require.Len(t, files, 1)
	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Equal(t, corrupt, raw, "original bytes are served unchanged")
}

func TestGeneratedNamesDoNotCollide(t *testing.T) {
	p, _ := newTestPipeline(t, 10<<20)
	content := pngBytes(t, 10, 10)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		req := multipartRequest(t, SlotArtworkImage, "same-name.png", content)
		stored, err := p.Receive(httptest.NewRecorder(), req, SlotArtworkImage)
		require.NoError(t, err)
		require.False(t, seen[stored.Filename], "duplicate generated name %s", stored.Filename)
		seen[stored.Filename] = true
	}
}

func TestRemoveRefusesEscapingPaths(t *testing.T) {
	p, _ := newTestPipeline(t, 10<<20)
	require.Error(t, p.Remove("../../etc/passwd"))
}
