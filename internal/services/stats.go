package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"

	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// InstructorOverview aggregates an instructor's footprint for the dashboard.
type InstructorOverview struct {
	Courses     int64 `json:"courses"`
	Assignments int64 `json:"assignments"`
	Enrollments int64 `json:"enrollments"`
	Documents   int64 `json:"documents"`
}

// StudentOverview aggregates a student's activity. AverageGrade is on a
// 10-point scale regardless of each assignment's max score, rounded to one
// decimal; 0.0 when nothing is graded yet.
type StudentOverview struct {
	EnrolledCourses int64   `json:"enrolled_courses"`
	Submissions     int64   `json:"submissions"`
	AverageGrade    float64 `json:"average_grade"`
}

type StatsService interface {
	InstructorOverview(ctx context.Context, instructorID uuid.UUID) (*InstructorOverview, error)
	StudentOverview(ctx context.Context, studentID uuid.UUID) (*StudentOverview, error)
}

type statsService struct {
	db  *gorm.DB
	log *logger.Logger

	courseRepo     courserepo.CourseRepo
	enrollmentRepo courserepo.EnrollmentRepo
	courseDocRepo  courserepo.DocumentRepo
	assignmentRepo assignmentrepo.AssignmentRepo
	submissionRepo assignmentrepo.SubmissionRepo
}

func NewStatsService(
	gdb *gorm.DB,
	log *logger.Logger,
	courseRepo courserepo.CourseRepo,
	enrollmentRepo courserepo.EnrollmentRepo,
	courseDocRepo courserepo.DocumentRepo,
	assignmentRepo assignmentrepo.AssignmentRepo,
	submissionRepo assignmentrepo.SubmissionRepo,
) StatsService {
	return &statsService{
		db:             gdb,
		log:            log.With("service", "StatsService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		courseDocRepo:  courseDocRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
	}
}

func (s *statsService) InstructorOverview(ctx context.Context, instructorID uuid.UUID) (*InstructorOverview, error) {
	if instructorID == uuid.Nil {
		return nil, errs.NewValidation("instructor_id", "required")
	}

	courses, err := s.courseRepo.CountByOwner(ctx, nil, instructorID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.CountByCreator(ctx, nil, instructorID)
	if err != nil {
		return nil, err
	}

	courseIDs, err := s.courseRepo.ListIDsByOwner(ctx, nil, instructorID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.CountByCourseIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, err
	}
	documents, err := s.courseDocRepo.CountByCourseIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, err
	}

	return &InstructorOverview{
		Courses:     courses,
		Assignments: assignments,
		Enrollments: enrollments,
		Documents:   documents,
	}, nil
}

func (s *statsService) StudentOverview(ctx context.Context, studentID uuid.UUID) (*StudentOverview, error) {
	if studentID == uuid.Nil {
		return nil, errs.NewValidation("student_id", "required")
	}

	enrolled, err := s.enrollmentRepo.CountByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissionRepo.CountByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	scores, err := s.submissionRepo.ListGradedScoresByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}

	return &StudentOverview{
		EnrolledCourses: enrolled,
		Submissions:     submissions,
		AverageGrade:    averageGrade(scores),
	}, nil
}

// averageGrade normalizes every graded score onto a 10-point scale before
// averaging so assignments with different max scores weigh equally.
func averageGrade(scores []assignmentrepo.GradedScore) float64 {
	normalized := make([]float64, 0, len(scores))
	for _, sc := range scores {
		if sc.MaxScore <= 0 {
			continue
		}
		normalized = append(normalized, sc.Grade/sc.MaxScore*10)
	}
	if len(normalized) == 0 {
		return 0.0
	}
	mean, err := stats.Mean(normalized)
	if err != nil {
		return 0.0
	}
	return math.Round(mean*10) / 10
}
