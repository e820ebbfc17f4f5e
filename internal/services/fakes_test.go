package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/clients/gcp"
	"github.com/brightboard/brightboard-backend/internal/data/db"
	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	notificationrepo "github.com/brightboard/brightboard-backend/internal/data/repos/notification"
	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	userrepo "github.com/brightboard/brightboard-backend/internal/data/repos/user"
)

// fakeBucket is an in-memory stand-in for GCS. Keys containing any entry of
// failSubstrings fail their upload, which exercises partial-failure paths.
type fakeBucket struct {
	mu             sync.Mutex
	objects        map[string][]byte
	failSubstrings []string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) key(category gcp.BucketCategory, key string) string {
	return string(category) + "/" + key
}

func (b *fakeBucket) UploadFile(ctx context.Context, category gcp.BucketCategory, key string, file io.Reader) error {
	for _, s := range b.failSubstrings {
		if strings.Contains(key, s) {
			return fmt.Errorf("simulated upload failure for %s", key)
		}
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[b.key(category, key)] = data
	return nil
}

func (b *fakeBucket) DeleteFile(ctx context.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, b.key(category, key))
	return nil
}

func (b *fakeBucket) ReplaceFile(ctx context.Context, category gcp.BucketCategory, key string, newFile io.Reader) error {
	if err := b.DeleteFile(ctx, category, key); err != nil {
		return err
	}
	return b.UploadFile(ctx, category, key, newFile)
}

func (b *fakeBucket) DownloadFile(ctx context.Context, category gcp.BucketCategory, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[b.key(category, key)]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (b *fakeBucket) ListKeys(ctx context.Context, category gcp.BucketCategory, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	full := b.key(category, prefix)
	var out []string
	for k := range b.objects {
		if strings.HasPrefix(k, full) {
			out = append(out, strings.TrimPrefix(k, string(category)+"/"))
		}
	}
	return out, nil
}

func (b *fakeBucket) DeletePrefix(ctx context.Context, category gcp.BucketCategory, prefix string) error {
	keys, err := b.ListKeys(ctx, category, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		_ = b.DeleteFile(ctx, category, k)
	}
	return nil
}

func (b *fakeBucket) GetPublicURL(category gcp.BucketCategory, key string) string {
	return "https://storage.test/" + string(category) + "/" + key
}

func (b *fakeBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

var _ gcp.BucketService = (*fakeBucket)(nil)

// testStack wires every service against the per-test transaction so writes
// roll back with the test.
type testStack struct {
	tx     *gorm.DB
	bucket *fakeBucket

	userRepo         userrepo.UserRepo
	courseRepo       courserepo.CourseRepo
	enrollmentRepo   courserepo.EnrollmentRepo
	courseDocRepo    courserepo.DocumentRepo
	assignmentRepo   assignmentrepo.AssignmentRepo
	submissionRepo   assignmentrepo.SubmissionRepo
	fileRepo         assignmentrepo.SubmissionFileRepo
	documentRepo     assignmentrepo.DocumentRepo
	notificationRepo notificationrepo.NotificationRepo

	notifications NotificationService
	assignments   AssignmentService
	submissions   SubmissionService
	grading       GradingService
	courses       CourseService
	documents     DocumentService
	stats         StatsService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	bucket := newFakeBucket()

	// Repos get the tx as their base handle; nested transactions inside
	// services become savepoints on the same tx.
	s := &testStack{
		tx:               tx,
		bucket:           bucket,
		userRepo:         userrepo.NewUserRepo(tx, log),
		courseRepo:       courserepo.NewCourseRepo(tx, log),
		enrollmentRepo:   courserepo.NewEnrollmentRepo(tx, log),
		courseDocRepo:    courserepo.NewDocumentRepo(tx, log),
		assignmentRepo:   assignmentrepo.NewAssignmentRepo(tx, log),
		submissionRepo:   assignmentrepo.NewSubmissionRepo(tx, log),
		fileRepo:         assignmentrepo.NewSubmissionFileRepo(tx, log),
		documentRepo:     assignmentrepo.NewDocumentRepo(tx, log),
		notificationRepo: notificationrepo.NewNotificationRepo(tx, log),
	}

	txRunner := db.NewTxRunner(tx)

	s.notifications = NewNotificationService(tx, log, s.notificationRepo, s.enrollmentRepo, nil, nil)
	s.assignments = NewAssignmentService(tx, log, txRunner,
		s.assignmentRepo, s.submissionRepo, s.fileRepo, s.documentRepo, s.courseRepo,
		bucket, s.notifications)
	s.submissions = NewSubmissionService(tx, log, txRunner,
		s.assignmentRepo, s.submissionRepo, s.fileRepo, bucket, nil)
	s.grading = NewGradingService(tx, log, s.assignmentRepo, s.submissionRepo, s.notifications, nil)
	s.courses = NewCourseService(tx, log, s.courseRepo, s.enrollmentRepo, s.userRepo, s.notifications)
	s.documents = NewDocumentService(tx, log,
		s.assignmentRepo, s.documentRepo, s.courseRepo, s.courseDocRepo,
		bucket, s.notifications)
	s.stats = NewStatsService(tx, log,
		s.courseRepo, s.enrollmentRepo, s.courseDocRepo, s.assignmentRepo, s.submissionRepo)
	return s
}
