package db

import (
	types "github.com/brightboard/brightboard-backend/internal/domain"
)

func (s *Service) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&types.User{},

		&types.Course{},
		&types.Enrollment{},
		&types.CourseDocument{},

		&types.Assignment{},
		&types.Submission{},
		&types.SubmissionFile{},
		&types.AssignmentDocument{},

		&types.Notification{},
	)
}
