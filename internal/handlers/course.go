package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/brightboard/brightboard-backend/internal/domain"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
	"github.com/brightboard/brightboard-backend/internal/requestdata"
	"github.com/brightboard/brightboard-backend/internal/services"
)

type CourseHandler struct {
	log             *logger.Logger
	courseService   services.CourseService
	documentService services.DocumentService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService, documentService services.DocumentService) *CourseHandler {
	return &CourseHandler{
		log:             log.With("handler", "CourseHandler"),
		courseService:   courseService,
		documentService: documentService,
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CourseHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	course, err := h.courseService.Create(c.Request.Context(), services.CreateCourseInput{
		OwnerID:     rd.UserID,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, course)
}

// List returns the caller's courses: owned for instructors, enrolled for
// students.
func (h *CourseHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var (
		courses []*types.Course
		err     error
	)
	if rd.Role == types.RoleInstructor {
		courses, err = h.courseService.ListOwned(c.Request.Context(), rd.UserID)
	} else {
		courses, err = h.courseService.ListEnrolled(c.Request.Context(), rd.UserID)
	}
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	course, err := h.courseService.Update(c.Request.Context(), id, body.Title, body.Description)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	var body struct {
		StudentID uuid.UUID `json:"student_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	enrollment, err := h.courseService.Enroll(c.Request.Context(), courseID, body.StudentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, enrollment)
}

func (h *CourseHandler) Unenroll(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	studentID, ok := pathUUID(c, "studentID")
	if !ok {
		return
	}
	if err := h.courseService.Unenroll(c.Request.Context(), courseID, studentID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"unenrolled": studentID})
}

func (h *CourseHandler) Roster(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	roster, err := h.courseService.Roster(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, roster)
}

func (h *CourseHandler) UploadDocument(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())

	upload, ok := formFileUpload(c)
	if !ok {
		return
	}
	defer upload.close()

	doc, err := h.documentService.UploadCourseDocument(c.Request.Context(), courseID, rd.UserID, c.PostForm("title"), upload.file)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, doc)
}

func (h *CourseHandler) ListDocuments(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID")
	if !ok {
		return
	}
	docs, err := h.documentService.ListCourseDocuments(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, docs)
}

func (h *CourseHandler) DocumentDownloadURL(c *gin.Context) {
	docID, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	url, err := h.documentService.CourseDocumentURL(c.Request.Context(), docID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func (h *CourseHandler) DeleteDocument(c *gin.Context) {
	docID, ok := pathUUID(c, "documentID")
	if !ok {
		return
	}
	if err := h.documentService.DeleteCourseDocument(c.Request.Context(), docID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": docID})
}
