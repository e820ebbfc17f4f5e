package app

import (
	"gorm.io/gorm"

	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	notificationrepo "github.com/brightboard/brightboard-backend/internal/data/repos/notification"
	userrepo "github.com/brightboard/brightboard-backend/internal/data/repos/user"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type Repos struct {
	User userrepo.UserRepo

	Course         courserepo.CourseRepo
	Enrollment     courserepo.EnrollmentRepo
	CourseDocument courserepo.DocumentRepo

	Assignment         assignmentrepo.AssignmentRepo
	AssignmentDocument assignmentrepo.DocumentRepo
	Submission         assignmentrepo.SubmissionRepo
	SubmissionFile     assignmentrepo.SubmissionFileRepo

	Notification notificationrepo.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User: userrepo.NewUserRepo(db, log),

		Course:         courserepo.NewCourseRepo(db, log),
		Enrollment:     courserepo.NewEnrollmentRepo(db, log),
		CourseDocument: courserepo.NewDocumentRepo(db, log),

		Assignment:         assignmentrepo.NewAssignmentRepo(db, log),
		AssignmentDocument: assignmentrepo.NewDocumentRepo(db, log),
		Submission:         assignmentrepo.NewSubmissionRepo(db, log),
		SubmissionFile:     assignmentrepo.NewSubmissionFileRepo(db, log),

		Notification: notificationrepo.NewNotificationRepo(db, log),
	}
}
