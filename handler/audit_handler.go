package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Aashish23092/financial-auditor/dto"
)

// Auditor is the analysis pipeline the handler drives.
type Auditor interface {
	Analyze(ctx context.Context, doc dto.Document) (*dto.AnalyzeResponse, error)
	AnalyzeText(ctx context.Context, text string) (*dto.AnalyzeResponse, error)
	AnalyzeBatch(ctx context.Context, docs []dto.Document) (*dto.BatchResponse, error)
	Report(ctx context.Context, doc dto.Document) ([]byte, *dto.AnalyzeResponse, error)
}

type AuditHandler struct {
	auditService  Auditor
	maxFileSize   int64
	maxBatchFiles int
}

func NewAuditHandler(auditService Auditor, maxFileSize int64, maxBatchFiles int) *AuditHandler {
	return &AuditHandler{
		auditService:  auditService,
		maxFileSize:   maxFileSize,
		maxBatchFiles: maxBatchFiles,
	}
}

// Register mounts the audit routes on group
func (h *AuditHandler) Register(group *gin.RouterGroup) {
	audit := group.Group("/audit")
	{
		audit.POST("/analyze", h.AnalyzeDocument)
		audit.POST("/text", h.AnalyzeText)
		audit.POST("/batch", h.AnalyzeBatch)
		audit.POST("/report", h.DownloadReport)
	}
}

// AnalyzeDocument handles the POST /audit/analyze endpoint
func (h *AuditHandler) AnalyzeDocument(c *gin.Context) {
	doc, ok := h.singleDocument(c)
	if !ok {
		return
	}

	response, err := h.auditService.Analyze(c.Request.Context(), doc)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AnalyzeText handles the POST /audit/text endpoint
func (h *AuditHandler) AnalyzeText(c *gin.Context) {
	var request dto.TextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, fmt.Errorf("%w: %v", dto.ErrInvalidBody, err))
		return
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, err)
		return
	}

	response, err := h.auditService.AnalyzeText(c.Request.Context(), request.Text)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AnalyzeBatch handles the POST /audit/batch endpoint
func (h *AuditHandler) AnalyzeBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, fmt.Errorf("%w: %v", dto.ErrNoFile, err))
		return
	}

	request := &dto.BatchRequest{Files: form.File["files[]"]}
	if err := request.Validate(h.maxFileSize, h.maxBatchFiles); err != nil {
		h.sendError(c, err)
		return
	}

	log.Info().Int("files", len(request.Files)).Msg("processing audit batch")

	docs := make([]dto.Document, 0, len(request.Files))
	for _, file := range request.Files {
		doc, err := readDocument(file, "")
		if err != nil {
			h.sendError(c, err)
			return
		}
		docs = append(docs, doc)
	}

	response, err := h.auditService.AnalyzeBatch(c.Request.Context(), docs)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DownloadReport handles the POST /audit/report endpoint
func (h *AuditHandler) DownloadReport(c *gin.Context) {
	doc, ok := h.singleDocument(c)
	if !ok {
		return
	}

	pdf, response, err := h.auditService.Report(c.Request.Context(), doc)
	if err != nil {
		h.sendError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="audit_report.pdf"`)
	c.Header("X-Analysis-Id", response.ID)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *AuditHandler) singleDocument(c *gin.Context) (dto.Document, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, fmt.Errorf("%w: %v", dto.ErrNoFile, err))
		return dto.Document{}, false
	}

	request := &dto.AnalyzeRequest{
		File:     file,
		Password: c.PostForm("password"),
	}
	if err := request.Validate(h.maxFileSize); err != nil {
		h.sendError(c, err)
		return dto.Document{}, false
	}

	log.Info().Str("filename", file.Filename).Int64("size", file.Size).Msg("received audit request")

	doc, err := readDocument(request.File, request.Password)
	if err != nil {
		h.sendError(c, err)
		return dto.Document{}, false
	}
	return doc, true
}

func readDocument(file *multipart.FileHeader, password string) (dto.Document, error) {
	f, err := file.Open()
	if err != nil {
		return dto.Document{}, fmt.Errorf("failed to open file %s: %w", file.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return dto.Document{}, fmt.Errorf("failed to read file %s: %w", file.Filename, err)
	}

	return dto.Document{Filename: file.Filename, Data: data, Password: password}, nil
}

// sendError sends a structured error response
func (h *AuditHandler) sendError(c *gin.Context, err error) {
	response := dto.NewErrorResponse(err)
	if response.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.FullPath()).Str("code", response.Error).Msg("request rejected")
	}

	c.JSON(response.Code, response)
}
