package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadAvatar stores an image sent as the multipart field "file" under dir and
// answers with the public URL to save as the node's avatar_url.
func UploadAvatar(dir string, maxBytes int64, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return
		}
		mtype, err := mimetype.DetectReader(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return
		}
		if !rasterImage(mtype) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "avatar must be an image"})
			return
		}

		ext := mtype.Extension()
		if ext == "" {
			ext = ".png"
		}
		name := "avatar_" + uuid.NewString() + ext

		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("cannot create upload dir", zap.String("dir", dir), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}
		if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
			logger.Error("cannot save avatar", zap.String("file", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			return
		}

		logger.Info("avatar uploaded", zap.String("file", name), zap.String("mime", mtype.String()))
		c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + name})
	}
}

// rasterImage rejects every non-raster type. SVG in particular can carry script
// and would be served from this origin.
func rasterImage(m *mimetype.MIME) bool {
	return m.Is("image/png") || m.Is("image/jpeg") || m.Is("image/gif") || m.Is("image/webp")
}
