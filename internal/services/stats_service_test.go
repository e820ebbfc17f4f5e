package services

import (
	"context"
	"testing"

	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	types "github.com/brightboard/brightboard-backend/internal/domain"
)

func TestAverageGrade(t *testing.T) {
	cases := []struct {
		name   string
		scores []assignmentrepo.GradedScore
		want   float64
	}{
		{"empty", nil, 0.0},
		{"single full marks", []assignmentrepo.GradedScore{{Grade: 10, MaxScore: 10}}, 10.0},
		{"normalizes max score", []assignmentrepo.GradedScore{{Grade: 10, MaxScore: 20}}, 5.0},
		{"mixed scales", []assignmentrepo.GradedScore{
			{Grade: 8, MaxScore: 10},
			{Grade: 15, MaxScore: 20},
			{Grade: 3, MaxScore: 5},
		}, 7.2},
		{"rounds to one decimal", []assignmentrepo.GradedScore{
			{Grade: 1, MaxScore: 3},
		}, 3.3},
		{"skips zero max", []assignmentrepo.GradedScore{
			{Grade: 5, MaxScore: 0},
			{Grade: 5, MaxScore: 10},
		}, 5.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := averageGrade(c.scores); got != c.want {
				t.Errorf("averageGrade = %v, want %v", got, c.want)
			}
		})
	}
}

func TestOverviews(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-ov@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-ov@test.dev", types.RoleStudent)

	course1 := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	course2 := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	testutil.SeedEnrollment(t, ctx, s.tx, course1.ID, student.ID)
	testutil.SeedEnrollment(t, ctx, s.tx, course2.ID, student.ID)
	testutil.SeedCourseDocument(t, ctx, s.tx, course1.ID, instructor.ID, "syllabus.pdf")

	asg1 := testutil.SeedAssignment(t, ctx, s.tx, course1.ID, instructor.ID, types.AssignmentActive)
	asg2 := testutil.SeedAssignment(t, ctx, s.tx, course2.ID, instructor.ID, types.AssignmentActive)

	sub1 := testutil.SeedSubmission(t, ctx, s.tx, asg1.ID, student.ID, types.SubmissionSubmitted)
	testutil.SeedSubmission(t, ctx, s.tx, asg2.ID, student.ID, types.SubmissionSubmitted)
	if err := s.submissionRepo.UpdateFields(ctx, s.tx, sub1.ID, map[string]interface{}{
		"status": types.SubmissionGraded, "grade": 8.0,
	}); err != nil {
		t.Fatalf("grade row: %v", err)
	}

	inst, err := s.stats.InstructorOverview(ctx, instructor.ID)
	if err != nil {
		t.Fatalf("InstructorOverview: %v", err)
	}
	if inst.Courses != 2 || inst.Assignments != 2 || inst.Enrollments != 2 || inst.Documents != 1 {
		t.Fatalf("InstructorOverview = %+v", inst)
	}

	stu, err := s.stats.StudentOverview(ctx, student.ID)
	if err != nil {
		t.Fatalf("StudentOverview: %v", err)
	}
	if stu.EnrolledCourses != 2 || stu.Submissions != 2 {
		t.Fatalf("StudentOverview = %+v", stu)
	}
	// One graded submission at 8/10 on the 10-point scale.
	if stu.AverageGrade != 8.0 {
		t.Fatalf("AverageGrade = %v, want 8.0", stu.AverageGrade)
	}
}
