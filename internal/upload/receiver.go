// Package upload extracts the product image from a multipart request and
// stores it on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Same layout as an ISO-8601 UTC timestamp with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var allowedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

type Receiver interface {
	// Receive returns the stored file path, or "" when no acceptable file
	// was attached. Rejected files are not an error.
	Receive(c echo.Context) (path string, err error)
}

type DiskReceiver struct {
	dir       string
	fieldName string
	maxSize   int64
	now       func() time.Time
	create    func(name string) (io.WriteCloser, error)
}

func CreateDiskReceiver(conf config.UploadConfig) *DiskReceiver {
	return &DiskReceiver{
		dir:       conf.Dir,
		fieldName: conf.FieldName,
		maxSize:   conf.MaxSizeBytes,
		now:       time.Now,
		create:    createFile,
	}
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func (r *DiskReceiver) Receive(c echo.Context) (path string, err error) {
	ctx := c.Request().Context()

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", fmt.Errorf("read upload: %w", err)
	}
	// Large parts are spooled to temp files; they go when the copy is done.
	defer form.RemoveAll()

	files := form.File[r.fieldName]
	if len(files) == 0 {
		return "", nil
	}
	header := files[0]

	mediaType := header.Header.Get(echo.HeaderContentType)
	if _, ok := allowedMediaTypes[mediaType]; !ok {
		log.Ctx(ctx).Warn().Str("component", "Receive").Str("media_type", mediaType).Msg("upload rejected: media type not allowed")
		return "", nil
	}

	if header.Size > r.maxSize {
		log.Ctx(ctx).Warn().Str("component", "Receive").Int64("size", header.Size).Int64("max_size", r.maxSize).Msg("upload rejected: file too large")
		return "", nil
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	path = filepath.Join(r.dir, r.fileName(header.Filename))

	dst, err := r.create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path, nil
}

// fileName prefixes the client's base name with the upload time. Two uploads
// of the same name within one millisecond overwrite each other.
func (r *DiskReceiver) fileName(original string) string {
	return r.now().UTC().Format(timestampLayout) + filepath.Base(original)
}
