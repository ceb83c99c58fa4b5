package lessons

import (
	"context"

	"go.uber.org/zap"

	"github.com/verte-zerg/finlearn/internal/model"
)

// Pusher writes one lesson to the remote store.
type Pusher interface {
	PushLesson(ctx context.Context, lesson model.Lesson) error
}

// PushReport counts the outcome of Push.
type PushReport struct {
	Pushed int
	Failed int
}

// Push uploads every lesson. A failed lesson is logged and counted; the rest
// are still attempted. Cancelling ctx stops early.
func Push(ctx context.Context, p Pusher, lessons []model.Lesson, logger *zap.Logger) PushReport {
	if logger == nil {
		logger = zap.NewNop()
	}
	var report PushReport
	for _, l := range lessons {
		if ctx.Err() != nil {
			report.Failed += len(lessons) - report.Pushed - report.Failed
			break
		}
		if err := p.PushLesson(ctx, l); err != nil {
			logger.Warn("failed to push lesson", zap.String("lesson", l.ID), zap.Error(err))
			report.Failed++
			continue
		}
		logger.Info("pushed lesson", zap.String("lesson", l.ID))
		report.Pushed++
	}
	return report
}
