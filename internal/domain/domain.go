package domain

import (
	"github.com/brightboard/brightboard-backend/internal/domain/assignment"
	"github.com/brightboard/brightboard-backend/internal/domain/course"
	"github.com/brightboard/brightboard-backend/internal/domain/notification"
	"github.com/brightboard/brightboard-backend/internal/domain/user"
)

const (
	RoleInstructor = user.RoleInstructor
	RoleStudent    = user.RoleStudent

	AssignmentDraft    = assignment.StatusDraft
	AssignmentActive   = assignment.StatusActive
	AssignmentArchived = assignment.StatusArchived

	SubmissionPending   = assignment.SubmissionPending
	SubmissionSubmitted = assignment.SubmissionSubmitted
	SubmissionGraded    = assignment.SubmissionGraded
	SubmissionLate      = assignment.SubmissionLate

	NotificationAssignmentCreated = notification.TypeAssignmentCreated
	NotificationAssignmentGraded  = notification.TypeAssignmentGraded
	NotificationDocumentUploaded  = notification.TypeDocumentUploaded
	NotificationCourseEnrolled    = notification.TypeCourseEnrolled
	NotificationMessage           = notification.TypeMessage

	DefaultMaxScore = assignment.DefaultMaxScore
)

type User = user.User

type Course = course.Course
type Enrollment = course.Enrollment
type CourseDocument = course.Document

type Assignment = assignment.Assignment
type Submission = assignment.Submission
type SubmissionFile = assignment.SubmissionFile
type AssignmentDocument = assignment.Document

type Notification = notification.Notification
