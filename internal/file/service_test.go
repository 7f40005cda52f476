package file

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/storage"
)

type fakeRepo struct {
	files map[string]*File
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{files: make(map[string]*File)}
}

func (f *fakeRepo) Create(ctx context.Context, file *File) error {
	clone := *file
	f.files[file.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *file
	return &clone, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.files[id]; !ok {
		return ErrNotFound
	}
	delete(f.files, id)
	return nil
}

// multipartHeader builds a multipart.FileHeader around the given content.
func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	repo := newFakeRepo()
	return NewService(repo, store, storage.NewImageProcessor()), repo
}

func TestUploadImage(t *testing.T) {
	svc, repo := newTestService(t)
	userID := uuid.NewString()

	header := multipartHeader(t, "cover.png", pngBytes(t, 800, 1200))

	f, err := svc.Upload(context.Background(), userID, header)
	require.NoError(t, err)
	assert.Equal(t, userID, f.UserID)
	assert.Equal(t, "cover.png", f.Filename)
	assert.Equal(t, "image/png", f.ContentType)
	require.NotNil(t, f.ThumbnailPath)

	stored, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.StoragePath, stored.StoragePath)
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc, _ := newTestService(t)

	header := multipartHeader(t, "notes.txt", []byte("plain text, definitely not an image"))

	_, err := svc.Upload(context.Background(), uuid.NewString(), header)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestOpenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	original := pngBytes(t, 100, 100)

	f, err := svc.Upload(context.Background(), uuid.NewString(), multipartHeader(t, "cover.png", original))
	require.NoError(t, err)

	meta, content, err := svc.Open(context.Background(), f.ID)
	require.NoError(t, err)
	defer content.Close()

	assert.Equal(t, f.ID, meta.ID)
	got, err := io.ReadAll(content)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestOpenThumbnail(t *testing.T) {
	svc, _ := newTestService(t)

	f, err := svc.Upload(context.Background(), uuid.NewString(), multipartHeader(t, "cover.png", pngBytes(t, 2000, 3000)))
	require.NoError(t, err)

	_, content, err := svc.OpenThumbnail(context.Background(), f.ID)
	require.NoError(t, err)
	defer content.Close()

	img, format, err := image.Decode(content)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, img.Bounds().Dx(), 480)
	assert.LessOrEqual(t, img.Bounds().Dy(), 480)
}

func TestOpenUnknownFile(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Open(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
