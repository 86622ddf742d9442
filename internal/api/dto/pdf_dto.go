package dto

// PDFQueryRequest accepts the question as JSON or as a form field.
type PDFQueryRequest struct {
	Query string `json:"query" form:"query" validate:"required"`
}
