package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/api/dto"
	"github.com/spec-kit/docquery-auth/internal/pdfquery"
	"github.com/spec-kit/docquery-auth/internal/service"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

// DocumentQuerier is the document backend as seen by the HTTP layer.
type DocumentQuerier interface {
	Upload(ctx context.Context, filename, contentType string, content []byte) (map[string]any, error)
	Query(ctx context.Context, query string) (*pdfquery.QueryResult, error)
}

// PDFHandler proxies uploads and questions to the document backend.
type PDFHandler struct {
	backend   DocumentQuerier
	validator *validator.Validate
}

// NewPDFHandler constructs handler.
func NewPDFHandler(backend DocumentQuerier) *PDFHandler {
	return &PDFHandler{backend: backend, validator: newValidator()}
}

// Upload handles POST /api/pdf/upload.
func (h *PDFHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("A PDF file is required")
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	reply, err := h.backend.Upload(c.UserContext(), header.Filename, header.Header.Get(fiber.HeaderContentType), content)
	if err != nil {
		return err
	}
	return c.JSON(reply)
}

// Query handles POST /api/pdf/query.
func (h *PDFHandler) Query(c *fiber.Ctx) error {
	var req dto.PDFQueryRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			return pdfquery.ErrMissingQuery
		}
		return err
	}

	result, err := h.backend.Query(c.UserContext(), req.Query)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
