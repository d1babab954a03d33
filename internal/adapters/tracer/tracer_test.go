package tracer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
)

type mockTracker struct{ mock.Mock }

func (m *mockTracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	args := m.Called(ctx, err, tags)
	return args.Error(0)
}

func (m *mockTracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	args := m.Called(ctx, message, level, tags)
	return args.Error(0)
}

func (m *mockTracker) SetUser(ctx context.Context, userID, email, username string) {
	m.Called(ctx, userID, email, username)
}

func (m *mockTracker) AddBreadcrumb(ctx context.Context, message, category string, level errors.Level, data map[string]interface{}) {
	m.Called(ctx, message, category, level, data)
}

func (m *mockTracker) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestSpanTracer_NoTrackerConfiguredDoesNotPanic(t *testing.T) {
	tr := New(nil)
	tr.Emit(orchestrator.Span{Node: "QueryAnalyzer", Start: time.Now(), End: time.Now(), Outcome: "ok"})
}

func TestSpanTracer_EmitsBreadcrumbWithInfoLevelOnSuccess(t *testing.T) {
	tracker := new(mockTracker)
	tracker.On("AddBreadcrumb", mock.Anything, "QueryAnalyzer", "orchestrator.node", errors.LevelInfo, mock.Anything).Return()

	tr := New(tracker)
	tr.Emit(orchestrator.Span{Node: "QueryAnalyzer", Start: time.Now(), End: time.Now(), Outcome: "ok"})

	tracker.AssertExpectations(t)
}

func TestSpanTracer_EmitsWarningLevelOnError(t *testing.T) {
	tracker := new(mockTracker)
	tracker.On("AddBreadcrumb", mock.Anything, "ErrorHandler", "orchestrator.node", errors.LevelWarning, mock.Anything).Return()

	tr := New(tracker)
	tr.Emit(orchestrator.Span{Node: "ErrorHandler", Start: time.Now(), End: time.Now(), Outcome: "error"})

	tracker.AssertExpectations(t)
}

func TestSpanTracer_MergesAttrsIntoBreadcrumbData(t *testing.T) {
	tracker := new(mockTracker)
	tracker.On("AddBreadcrumb", mock.Anything, "DataAgent", "orchestrator.node", errors.LevelInfo,
		mock.MatchedBy(func(data map[string]interface{}) bool {
			return data["symbol"] == "AAPL" && data["request_id"] == "req-1"
		})).Return()

	tr := New(tracker)
	tr.Emit(orchestrator.Span{
		Node:      "DataAgent",
		RequestID: "req-1",
		Start:     time.Now(),
		End:       time.Now(),
		Outcome:   "ok",
		Attrs:     map[string]interface{}{"symbol": "AAPL"},
	})

	tracker.AssertExpectations(t)
}
