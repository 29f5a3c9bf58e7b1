// File: internal/infra/adapters/notify/log_notifier.go
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"online-course-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*LogNotifier)(nil)

// LogNotifier stands in for a mail provider. Enrollment flows treat
// notification failure as non-fatal either way, so a log line is an honest
// minimum implementation.
type LogNotifier struct {
	log *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) EnrollmentCompleted(ctx context.Context, userID, courseID string) error {
	n.log.Info().
		Str("user_id", userID).
		Str("course_id", courseID).
		Msg("enrollment confirmation notification")
	return nil
}
