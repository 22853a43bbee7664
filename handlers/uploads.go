package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"finanzago-go-be/models"
	"finanzago-go-be/uploader"
)

// StageResponse represents the response for the uploads endpoint
type StageResponse struct {
	Staged  []models.StagedFile `json:"staged"`
	Skipped int                 `json:"skipped"`
	Warning string              `json:"warning,omitempty"`
}

// StageUploads stages the multipart "files" of the request. Files with a
// disallowed extension are skipped and counted.
func (h *Handler) StageUploads(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Multipart form with files required")
	}

	headers := form.File["files"]
	uploads := make([]uploader.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFormFile(fh)
		if err != nil {
			h.logger.Warn(c.UserContext(), "unreadable upload", "name", fh.Filename, "error", err)
			return fail(c, fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		uploads = append(uploads, uploader.Upload{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get(fiber.HeaderContentType),
			Data:     data,
		})
	}

	s := currentSession(c)
	added, skipped := s.Uploads().AddAll(uploads)
	if skipped > 0 {
		h.logger.Info(c.UserContext(), "uploads skipped", "skipped", skipped)
	}

	return c.JSON(StageResponse{
		Staged:  added,
		Skipped: skipped,
		Warning: uploader.SkippedWarning(skipped),
	})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) ListUploads(c *fiber.Ctx) error {
	files := currentSession(c).Uploads().Files()
	if files == nil {
		files = []models.StagedFile{}
	}
	return c.JSON(fiber.Map{"staged": files})
}

func (h *Handler) RemoveUpload(c *fiber.Ctx) error {
	if !currentSession(c).Uploads().Remove(c.Params("id")) {
		return fail(c, fiber.StatusNotFound, "Staged file not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
