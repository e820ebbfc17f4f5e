package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	types "github.com/brightboard/brightboard-backend/internal/domain"
)

func TestNotificationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewNotificationRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "user-nr@test.dev", types.RoleStudent)
	other := testutil.SeedUser(t, ctx, tx, "other-nr@test.dev", types.RoleStudent)

	n1 := testutil.SeedNotification(t, ctx, tx, user.ID, types.NotificationAssignmentCreated, false)
	testutil.SeedNotification(t, ctx, tx, user.ID, types.NotificationAssignmentGraded, false)
	testutil.SeedNotification(t, ctx, tx, user.ID, types.NotificationMessage, false)
	testutil.SeedNotification(t, ctx, tx, user.ID, types.NotificationMessage, true)
	testutil.SeedNotification(t, ctx, tx, other.ID, types.NotificationMessage, false)

	if got, err := repo.GetByID(ctx, tx, n1.ID); err != nil || got == nil || got.ID != n1.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if rows, err := repo.ListByUser(ctx, tx, user.ID, 0); err != nil || len(rows) != 4 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByUser(ctx, tx, user.ID, 2); err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser limit: err=%v len=%d", err, len(rows))
	}

	counts, err := repo.CountUnreadByUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("CountUnreadByUser: %v", err)
	}
	if counts.Messages != 1 || counts.Notifications != 2 {
		t.Fatalf("CountUnreadByUser: got %+v", counts)
	}

	if n, err := repo.MarkRead(ctx, tx, user.ID, []uuid.UUID{n1.ID}); err != nil || n != 1 {
		t.Fatalf("MarkRead: err=%v n=%d", err, n)
	}
	// Already-read rows are not re-counted as affected.
	if n, err := repo.MarkRead(ctx, tx, user.ID, []uuid.UUID{n1.ID}); err != nil || n != 0 {
		t.Fatalf("MarkRead again: err=%v n=%d", err, n)
	}

	if n, err := repo.MarkAllRead(ctx, tx, user.ID); err != nil || n != 2 {
		t.Fatalf("MarkAllRead: err=%v n=%d", err, n)
	}
	counts, err = repo.CountUnreadByUser(ctx, tx, user.ID)
	if err != nil || counts.Messages != 0 || counts.Notifications != 0 {
		t.Fatalf("after MarkAllRead CountUnreadByUser: err=%v counts=%+v", err, counts)
	}

	// Other user's rows untouched.
	counts, err = repo.CountUnreadByUser(ctx, tx, other.ID)
	if err != nil || counts.Messages != 1 {
		t.Fatalf("other CountUnreadByUser: err=%v counts=%+v", err, counts)
	}

	if err := repo.DeleteByUser(ctx, tx, user.ID); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if rows, err := repo.ListByUser(ctx, tx, user.ID, 0); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByUser ListByUser: err=%v len=%d", err, len(rows))
	}
}
