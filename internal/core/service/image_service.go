package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

const (
	MaxImageBytes     = 10 << 20
	MinImageDimension = 50

	uploadField   = "file"
	uploadTimeout = 60 * time.Second
)

var imageExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

// ImageFile is a local image that passed validation.
type ImageFile struct {
	Path        string
	Ext         string
	ContentType string
	Size        int64
	// Width and Height are zero when the format could not be decoded.
	Width  int
	Height int
}

// ValidateImage checks a local file before upload: it must exist, be at
// most MaxImageBytes and, when its dimensions can be read, be at least
// MinImageDimension pixels on each side.
func ValidateImage(path string) (*ImageFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no image selected", domain.ErrInvalidImage)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrInvalidImage, path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidImage, path)
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("%w: image is too large (max 10MB)", domain.ErrInvalidImage)
	}

	ext, contentType := imageType(path)
	img := &ImageFile{Path: path, Ext: ext, ContentType: contentType, Size: info.Size()}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	defer f.Close()
	if cfg, _, err := image.DecodeConfig(f); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
		if cfg.Width < MinImageDimension || cfg.Height < MinImageDimension {
			return nil, fmt.Errorf("%w: image must be at least %dx%d pixels", domain.ErrInvalidImage, MinImageDimension, MinImageDimension)
		}
	}
	return img, nil
}

// imageType derives the upload extension and MIME type from the file name.
// Unknown extensions are sent as jpg.
func imageType(path string) (ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !imageExtensions[ext] {
		ext = "jpg"
	}
	if ext == "jpg" {
		return ext, "image/jpeg"
	}
	return ext, "image/" + ext
}

type ImageService struct {
	api    ports.APIClient
	logger zerolog.Logger
	now    func() time.Time
}

var _ ports.ImageService = (*ImageService)(nil)

func NewImageService(api ports.APIClient, logger zerolog.Logger) *ImageService {
	return &ImageService{api: api, logger: logger, now: time.Now}
}

func (s *ImageService) UploadProductImage(ctx context.Context, productID int64, path string) (*domain.Product, error) {
	var out domain.Product
	if err := s.upload(ctx, itemPath("/products", productID, "image"), path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ImageService) UploadCategoryImage(ctx context.Context, categoryID int64, path string) (*domain.Category, error) {
	var out domain.Category
	if err := s.upload(ctx, itemPath("/categories", categoryID, "image"), path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ImageService) upload(ctx context.Context, endpoint, path string, out any) error {
	img, err := ValidateImage(path)
	if err != nil {
		return err
	}
	f, err := os.Open(img.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	defer f.Close()

	name := fmt.Sprintf("image_%d.%s", s.now().UnixMilli(), img.Ext)
	resp, err := s.api.Do(ctx, ports.APIRequest{
		Method:  http.MethodPost,
		Path:    endpoint,
		Timeout: uploadTimeout,
		Body: ports.MultipartBody{Files: []ports.FilePart{{
			Field:       uploadField,
			FileName:    name,
			ContentType: img.ContentType,
			Content:     f,
		}}},
	})
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("endpoint", endpoint).
		Str("file_name", name).
		Int64("bytes", img.Size).
		Msg("image uploaded")
	return resp.Decode(out)
}
