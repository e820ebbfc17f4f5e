package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
	"github.com/brightboard/brightboard-backend/internal/requestdata"
	"github.com/brightboard/brightboard-backend/internal/services"
)

type SubmissionHandler struct {
	log               *logger.Logger
	submissionService services.SubmissionService
	gradingService    services.GradingService
}

func NewSubmissionHandler(log *logger.Logger, submissionService services.SubmissionService, gradingService services.GradingService) *SubmissionHandler {
	return &SubmissionHandler{
		log:               log.With("handler", "SubmissionHandler"),
		submissionService: submissionService,
		gradingService:    gradingService,
	}
}

// Submit accepts multipart form data: a "content" text field plus any
// number of "files" parts. Per-file failures come back in the payload
// alongside the stored submission instead of failing the whole request.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	assignmentID, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())

	uploads, closers, ok := formFileUploads(c)
	if !ok {
		return
	}
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()

	result, err := h.submissionService.Submit(c.Request.Context(), assignmentID, rd.UserID, c.PostForm("content"), uploads)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, result)
}

func (h *SubmissionHandler) GetMine(c *gin.Context) {
	assignmentID, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	sub, err := h.submissionService.GetForStudent(c.Request.Context(), assignmentID, rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, sub)
}

func (h *SubmissionHandler) ListForInstructor(c *gin.Context) {
	assignmentID, ok := pathUUID(c, "assignmentID")
	if !ok {
		return
	}
	subs, err := h.submissionService.ListForInstructor(c.Request.Context(), assignmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, subs)
}

func (h *SubmissionHandler) RemoveAttachment(c *gin.Context) {
	fileID, ok := pathUUID(c, "fileID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := h.submissionService.RemoveAttachment(c.Request.Context(), fileID, rd.UserID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": fileID})
}

func (h *SubmissionHandler) Grade(c *gin.Context) {
	submissionID, ok := pathUUID(c, "submissionID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	var body struct {
		Grade    float64 `json:"grade"`
		Feedback *string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sub, err := h.gradingService.Grade(c.Request.Context(), services.GradeInput{
		SubmissionID: submissionID,
		Grade:        body.Grade,
		Feedback:     body.Feedback,
		GradedBy:     rd.UserID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, sub)
}
