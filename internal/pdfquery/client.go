package pdfquery

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/docquery-auth/internal/config"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

var (
	ErrNotPDF       = apperrors.NewValidationError("Only PDF files are allowed")
	ErrEmptyFile    = apperrors.NewValidationError("File is empty")
	ErrMissingQuery = apperrors.NewValidationError("Query is required")
)

// Document is one retrieved chunk with the page it came from.
// Page is nil when the backend could not attribute the chunk.
type Document struct {
	Page    *int   `json:"page"`
	Content string `json:"content"`
}

// QueryResult is the answer to a question together with its sources.
type QueryResult struct {
	Answer           string     `json:"answer"`
	Documents        []Document `json:"documents"`
	HighlightedPages []int      `json:"highlighted_pages"`
}

// Client forwards uploads and questions to the document query backend.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a client for the configured backend.
func NewClient(cfg config.PDFConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		timeout: cfg.Timeout(),
		logger:  logger.Named("pdfquery"),
	}
}

// Upload sends a PDF to the backend for indexing and returns the backend's reply.
func (c *Client) Upload(ctx context.Context, filename, contentType string, content []byte) (map[string]any, error) {
	if !isPDF(filename, contentType) {
		return nil, ErrNotPDF
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}

	agent := fiber.Post(c.baseURL + "/upload/")
	agent.FileData(&fiber.FormFile{
		Fieldname: "file",
		Name:      filepath.Base(filename),
		Content:   content,
	})
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	agent.MultipartForm(args)

	body, err := c.do(ctx, agent, "upload")
	if err != nil {
		return nil, err
	}

	var reply map[string]any
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("decode upload reply: %w", err))
	}
	return reply, nil
}

// Query asks the backend a question about the indexed documents.
func (c *Client) Query(ctx context.Context, query string) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}

	agent := fiber.Post(c.baseURL + "/query")
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("query", query)
	agent.Form(args)

	body, err := c.do(ctx, agent, "query")
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.NewUpstreamError(fmt.Errorf("decode query reply: %w", err))
	}
	if result.Documents == nil {
		result.Documents = []Document{}
	}
	result.HighlightedPages = distinctPages(result.Documents)
	return &result, nil
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, op string) ([]byte, error) {
	if timeout := c.effectiveTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	start := time.Now()
	status, body, errs := agent.Bytes()
	log := c.logger.With(zap.String("op", op), zap.Int("status", status), zap.Duration("latency", time.Since(start)))

	if len(errs) > 0 {
		log.Warn("pdf backend request failed", zap.Errors("errors", errs))
		return nil, apperrors.NewUpstreamError(fmt.Errorf("%s: %w", op, errs[0]))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		log.Warn("pdf backend returned an error", zap.ByteString("body", truncate(body, 512)))
		return nil, apperrors.NewUpstreamError(fmt.Errorf("%s: backend status %d", op, status))
	}
	log.Debug("pdf backend request finished")
	return body, nil
}

// effectiveTimeout is the configured timeout, shortened to the context deadline if that comes first.
func (c *Client) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func isPDF(filename, contentType string) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return false
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch mediaType {
	case "", "application/pdf", "application/octet-stream":
		return true
	default:
		return false
	}
}

// distinctPages lists each attributed page once, in the order it first appears.
func distinctPages(docs []Document) []int {
	pages := make([]int, 0, len(docs))
	seen := make(map[int]struct{}, len(docs))
	for _, d := range docs {
		if d.Page == nil {
			continue
		}
		if _, ok := seen[*d.Page]; ok {
			continue
		}
		seen[*d.Page] = struct{}{}
		pages = append(pages, *d.Page)
	}
	return pages
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
