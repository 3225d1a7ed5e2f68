package request

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"e-approval/internal/shared/apperror"
	"e-approval/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const (
	maxMultipartMemory = 32 << 20
	maxFilesPerRequest = 10
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("request.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("request endpoint failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", apperror.MapValidationError(err).Error(), err.Error())
}

func viewerFrom(c *gin.Context) Viewer {
	return Viewer{ID: c.GetString("user_id"), Role: c.GetString("role")}
}

// Create accepts plain JSON, or multipart with the JSON body in "payload" and files under "files".
func (h *Handler) Create(c *gin.Context) {
	var in CreateRequestInput

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			h.writeBindError(c, err)
			return
		}
		if err := binding.JSON.BindBody([]byte(c.Request.FormValue("payload")), &in); err != nil {
			h.writeBindError(c, err)
			return
		}
		files, err := readUploads(c.Request.MultipartForm)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
			return
		}
		in.Files = files
	} else if err := c.ShouldBindJSON(&in); err != nil {
		h.writeBindError(c, err)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), c.GetString("user_id"), in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusCreated, result.Request, result.Warnings)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	q := ListRequestsQuery{
		RequestType:  c.Query("type"),
		FinalStatus:  strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		RequestorID:  c.Query("requestor_id"),
		ApproverID:   c.Query("approver_id"),
		TechnicianID: c.Query("technician_id"),
		From:         from,
		To:           to,
		Oldest:       strings.EqualFold(c.Query("sort"), "oldest"),
	}
	if q.FinalStatus != "" && !IsValidStatus(q.FinalStatus) {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Unknown status filter", q.FinalStatus)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), q, viewerFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writePage(c, resp)
}

func (h *Handler) ListForApprover(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	resp, err := h.svc.ListForApprover(c.Request.Context(), c.GetString("user_id"), from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writePage(c, resp)
}

func (h *Handler) ListForTechnician(c *gin.Context) {
	resp, err := h.svc.ListForTechnician(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	var in DecisionInput
	if err := bindOptionalJSON(c, &in); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.svc.Approve(c.Request.Context(), c.Param("id"), c.GetString("user_id"), in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var in DecisionInput
	if err := bindOptionalJSON(c, &in); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.svc.Reject(c.Request.Context(), c.Param("id"), c.GetString("user_id"), in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AssignTechnician(c *gin.Context) {
	var in AssignTechnicianInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.svc.AssignTechnician(c.Request.Context(), c.Param("id"), c.GetString("user_id"), in.TechnicianID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AdvanceMaintenanceStatus(c *gin.Context) {
	resp, err := h.svc.AdvanceMaintenanceStatus(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Document(c *gin.Context) {
	pdf, fileName, err := h.svc.RenderDocument(c.Request.Context(), c.Param("id"), viewerFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	disposition := "inline"
	if c.Query("download") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, fileName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) writePage(c *gin.Context, resp []RequestResponse) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return binding.Validator.ValidateStruct(dst)
	}
	return c.ShouldBindJSON(dst)
}

// dateRange reads from/to as calendar days; to is inclusive.
func dateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, fmt.Errorf("from must be YYYY-MM-DD")
		}
		from = &t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, fmt.Errorf("to must be YYYY-MM-DD")
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, nil
}

func readUploads(form *multipart.Form) ([]FileUpload, error) {
	if form == nil {
		return nil, nil
	}
	headers := make([]*multipart.FileHeader, 0, len(form.File["files"])+len(form.File["files[]"]))
	headers = append(headers, form.File["files"]...)
	headers = append(headers, form.File["files[]"]...)
	if len(headers) > maxFilesPerRequest {
		return nil, fmt.Errorf("at most %d files can be attached", maxFilesPerRequest)
	}

	out := make([]FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		out = append(out, FileUpload{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return out, nil
}
