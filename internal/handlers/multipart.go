package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightboard/brightboard-backend/internal/services"
)

type openedUpload struct {
	file services.FileUpload
	src  multipart.File
}

func (u *openedUpload) close() {
	if u.src != nil {
		u.src.Close()
	}
}

// formFileUpload reads the "file" part of a multipart form into a
// services.FileUpload. The caller owns closing the returned upload.
func formFileUpload(c *gin.Context) (*openedUpload, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("file field required: %w", err))
		return nil, false
	}
	src, err := header.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, false
	}
	return &openedUpload{
		file: services.FileUpload{
			Name:    header.Filename,
			Size:    header.Size,
			Content: src,
		},
		src: src,
	}, true
}

// formFileUploads collects every file under the "files" multipart field.
// Closers are returned so the handler can release them after the service
// call finishes.
func formFileUploads(c *gin.Context) ([]services.FileUpload, []multipart.File, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil, true
		}
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, nil, false
	}
	headers := form.File["files"]
	uploads := make([]services.FileUpload, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			for _, cl := range closers {
				cl.Close()
			}
			RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("open %s: %w", header.Filename, err))
			return nil, nil, false
		}
		uploads = append(uploads, services.FileUpload{
			Name:    header.Filename,
			Size:    header.Size,
			Content: src,
		})
		closers = append(closers, src)
	}
	return uploads, closers, true
}
