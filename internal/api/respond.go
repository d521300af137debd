package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
)

// fail maps the error taxonomy to HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrMedia):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

// saveTemp writes an uploaded file into the temp upload dir and returns its
// path plus declared content type. The media collaborator removes the file
// after upload.
func (s *Server) saveTemp(c *fiber.Ctx, fh *multipart.FileHeader) (string, string, error) {
	path := filepath.Join(s.uploadDir, uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveFile(fh, path); err != nil {
		return "", "", apperr.Media(err)
	}
	return path, fh.Header.Get("Content-Type"), nil
}

// formFile returns the named multipart file, or nil when absent.
func formFile(c *fiber.Ctx, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}
