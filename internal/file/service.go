package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/book-rental-backend/internal/pkg/storage"
)

const (
	thumbnailMaxWidth  = 480
	thumbnailMaxHeight = 480
)

type Service interface {
	// Upload stores an uploaded image and its thumbnail and records the metadata.
	Upload(ctx context.Context, userID string, header *multipart.FileHeader) (*File, error)

	// Open returns the stored content and metadata for a file.
	Open(ctx context.Context, id string) (*File, io.ReadCloser, error)

	// OpenThumbnail returns the thumbnail content and metadata for a file.
	OpenThumbnail(ctx context.Context, id string) (*File, io.ReadCloser, error)
}

type service struct {
	repo      Repository
	store     storage.Storage
	processor *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage, processor *storage.ImageProcessor) Service {
	return &service{
		repo:      repo,
		store:     store,
		processor: processor,
	}
}

func (s *service) Upload(ctx context.Context, userID string, header *multipart.FileHeader) (*File, error) {
	if header.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	if len(content) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	id := uuid.NewString()
	// Shard by the first two id characters to keep directories small.
	shard := id[:2]
	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := filepath.Join("upload", shard, id+ext)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}

	f := &File{
		ID:          id,
		UserID:      userID,
		Filename:    header.Filename,
		StoragePath: storagePath,
		ContentType: contentType,
		Size:        int64(len(content)),
	}

	thumb, err := s.processor.GenerateThumbnail(bytes.NewReader(content), thumbnailMaxWidth, thumbnailMaxHeight)
	if err != nil {
		// Some image formats cannot be decoded; the original is still usable.
		log.Printf("generate thumbnail for %s: %v", id, err)
	} else {
		thumbPath := filepath.Join("upload", shard, id+"_thumb.jpg")
		if err := s.store.Save(ctx, thumbPath, thumb); err != nil {
			log.Printf("save thumbnail for %s: %v", id, err)
		} else {
			f.ThumbnailPath = &thumbPath
		}
	}

	if err := s.repo.Create(ctx, f); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			log.Printf("clean up file %s after failed insert: %v", storagePath, delErr)
		}
		if f.ThumbnailPath != nil {
			if delErr := s.store.Delete(ctx, *f.ThumbnailPath); delErr != nil {
				log.Printf("clean up thumbnail %s after failed insert: %v", *f.ThumbnailPath, delErr)
			}
		}
		return nil, err
	}

	return f, nil
}

func (s *service) Open(ctx context.Context, id string) (*File, io.ReadCloser, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file %s: %w", f.StoragePath, err)
	}
	return f, content, nil
}

func (s *service) OpenThumbnail(ctx context.Context, id string) (*File, io.ReadCloser, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	content, err := s.store.Get(ctx, *f.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored thumbnail %s: %w", *f.ThumbnailPath, err)
	}
	return f, content, nil
}
