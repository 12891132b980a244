package workerproc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-tailor/internal/generatedresumes"
	"resume-tailor/internal/queue"
	"resume-tailor/internal/render"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// PDFEnsurer renders and caches the PDF of a generated resume.
type PDFEnsurer interface {
	EnsurePDF(ctx context.Context, userID, resumeID int64) (bool, error)
}

var (
	// ErrMissingIDs indicates a render job without user or resume id.
	ErrMissingIDs = errors.New("missing user or resume id")
	// ErrUnsupportedVersion indicates a render job from a newer producer.
	ErrUnsupportedVersion = errors.New("unsupported message version")
)

// ErrProcess indicates rendering failed after the message was validated.
type ErrProcess struct {
	ResumeID  int64
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process render job"
	}
	return "process render job: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Validate rejects messages that can never be processed.
func Validate(msg queue.Message) error {
	if msg.UserID <= 0 || msg.ResumeID <= 0 {
		return ErrMissingIDs
	}
	if msg.Version > queue.MessageVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, msg.Version)
	}
	return nil
}

// HandleMessage validates a render job and makes sure its PDF is in the object store.
// Failures that cannot succeed on retry are wrapped with queue.Permanent.
func HandleMessage(ctx context.Context, svc PDFEnsurer, msg queue.Message) error {
	if svc == nil {
		return errors.New("render service not configured")
	}
	metrics.IncRenderJobsReceived()
	fields := map[string]any{
		"resume_id":  msg.ResumeID,
		"user_id":    msg.UserID,
		"request_id": msg.RequestID,
	}

	if err := Validate(msg); err != nil {
		metrics.IncRenderJobsFailed()
		fields["error"] = err
		telemetry.Error("worker.render.invalid", fields)
		return queue.Permanent(err)
	}

	start := time.Now()
	cached, err := svc.EnsurePDF(ctx, msg.UserID, msg.ResumeID)
	fields["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		metrics.IncRenderJobsFailed()
		procErr := ErrProcess{ResumeID: msg.ResumeID, RequestID: msg.RequestID, Err: err}
		if retryable(err) {
			return procErr
		}
		return queue.Permanent(procErr)
	}

	metrics.IncRenderJobsCompleted()
	fields["cached"] = cached
	telemetry.Info("worker.render.completed", fields)
	return nil
}

// NewHandler adapts svc to a queue consumer handler.
func NewHandler(svc PDFEnsurer) queue.Handler {
	return func(ctx context.Context, msg queue.Message) error {
		return HandleMessage(ctx, svc, msg)
	}
}

// retryable reports whether a render failure may succeed on another attempt.
// Missing rows, missing content and LaTeX compile errors are deterministic.
func retryable(err error) bool {
	switch {
	case errors.Is(err, generatedresumes.ErrNotFound),
		errors.Is(err, generatedresumes.ErrEmptyContent):
		return false
	case errors.Is(err, render.ErrTimeout):
		return true
	case errors.Is(err, generatedresumes.ErrRenderFailed):
		return false
	default:
		return true
	}
}
