package middleware

import (
	"fmt"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Room for the non-file form fields and multipart boundaries.
const formOverhead = 1 << 20

// UploadLimit rejects request bodies larger than the upload ceiling plus
// formOverhead with 413, before the multipart form is parsed.
func UploadLimit(conf config.UploadConfig) echo.MiddlewareFunc {
	return echomiddleware.BodyLimit(fmt.Sprintf("%dB", UploadBodyLimit(conf)))
}

func UploadBodyLimit(conf config.UploadConfig) int64 {
	return conf.MaxSizeBytes + formOverhead
}
