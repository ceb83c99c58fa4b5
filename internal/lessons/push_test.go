package lessons

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/finlearn/internal/model"
)

type fakePusher struct {
	failOn map[string]bool
	pushed []string
}

func (p *fakePusher) PushLesson(_ context.Context, l model.Lesson) error {
	if p.failOn[l.ID] {
		return errors.New("permission denied")
	}
	p.pushed = append(p.pushed, l.ID)
	return nil
}

func TestPushCountsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := &fakePusher{failOn: map[string]bool{"b": true}}
	lessons := []model.Lesson{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	report := Push(context.Background(), p, lessons, zap.New(core))
	assert.Equal(t, PushReport{Pushed: 2, Failed: 1}, report)
	assert.Equal(t, []string{"a", "c"}, p.pushed)
	assert.Equal(t, 1, logs.Len())
}

func TestPushStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakePusher{}
	report := Push(ctx, p, []model.Lesson{{ID: "a"}, {ID: "b"}}, nil)
	assert.Equal(t, PushReport{Failed: 2}, report)
	assert.Empty(t, p.pushed)
}
