package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
	"github.com/brightboard/brightboard-backend/internal/requestdata"
	"github.com/brightboard/brightboard-backend/internal/services"
)

type AssignmentHandler struct {
	log               *logger.Logger
	assignmentService services.AssignmentService
	documentService   services.DocumentService
}

func NewAssignmentHandler(log *logger.Logger, assignmentService services.AssignmentService, documentService services.DocumentService) *AssignmentHandler {
	return &AssignmentHandler{
		log:               log.With("handler", "AssignmentHandler"),
		assignmentService: assignmentService,
		documentService:   documentService,
	}
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	var body struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		MaxScore    float64    `json:"max_score"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	asg, err := h.assignmentService.Create(c.Request.Context(), services.CreateAssignmentInput{
		CourseID:    courseID,
		CreatedBy:   rd.UserID,
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		MaxScore:    body.MaxScore,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, asg)
}

func (h *AssignmentHandler) ListByCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	asgs, err := h.assignmentService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, asgs)
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	asg, err := h.assignmentService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, asg)
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	var body struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		ClearDue    bool       `json:"clear_due"`
		MaxScore    *float64   `json:"max_score"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	asg, err := h.assignmentService.Update(c.Request.Context(), id, services.UpdateAssignmentInput{
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		ClearDue:    body.ClearDue,
		MaxScore:    body.MaxScore,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, asg)
}

// SetStatus drives the draft -> active -> archived lifecycle. Illegal
// transitions come back as 409 invalid_transition.
func (h *AssignmentHandler) SetStatus(c *gin.Context) {
	id, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	asg, err := h.assignmentService.SetStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, asg)
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	if err := h.assignmentService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (h *AssignmentHandler) UploadDocument(c *gin.Context) {
	id, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())

	upload, ok := formFileUpload(c)
	if !ok {
		return
	}
	defer upload.close()

	doc, err := h.documentService.UploadAssignmentDocument(c.Request.Context(), id, rd.UserID, c.PostForm("title"), upload.file)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, doc)
}

func (h *AssignmentHandler) ListDocuments(c *gin.Context) {
	id, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	docs, err := h.documentService.ListAssignmentDocuments(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, docs)
}

func (h *AssignmentHandler) DocumentDownloadURL(c *gin.Context) {
	docID, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	url, err := h.documentService.AssignmentDocumentURL(c.Request.Context(), docID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func (h *AssignmentHandler) DeleteDocument(c *gin.Context) {
	docID, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	if err := h.documentService.DeleteAssignmentDocument(c.Request.Context(), docID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": docID})
}
