package observability

import "sync/atomic"

// Metrics holds cheap in-process counters for the write paths. They back the
// /healthcheck style introspection and log lines; durable metrics belong to
// the tracing backend.
type Metrics struct {
	SubmissionsReceived  atomic.Int64
	SubmissionsGraded    atomic.Int64
	NotificationsWritten atomic.Int64
	FilesUploaded        atomic.Int64
	FilesRejected        atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	return map[string]int64{
		"submissions_received":  m.SubmissionsReceived.Load(),
		"submissions_graded":    m.SubmissionsGraded.Load(),
		"notifications_written": m.NotificationsWritten.Load(),
		"files_uploaded":        m.FilesUploaded.Load(),
		"files_rejected":        m.FilesRejected.Load(),
	}
}
