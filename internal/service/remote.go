package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/tuition-portal-api/pkg/errors"
)

const defaultRemoteTimeout = 20 * time.Second

// RemoteCaller bounds calls into the booking backend. A call is detached from the request
// context so that a client going away does not abort it, and it races a fixed timeout. When
// the timeout wins the caller gets ErrTimeout while the call runs to completion in the
// background; its side effects still land. Calls are never retried.
type RemoteCaller struct {
	timeout time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRemoteCaller constructs a remote caller.
func NewRemoteCaller(timeout time.Duration, metrics *MetricsService, logger *zap.Logger) *RemoteCaller {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteCaller{timeout: timeout, metrics: metrics, logger: logger}
}

// Timeout reports the bound applied to each call.
func (rc *RemoteCaller) Timeout() time.Duration {
	if rc == nil {
		return defaultRemoteTimeout
	}
	return rc.timeout
}

type remoteResult[T any] struct {
	value T
	err   error
}

// callRemote runs call under the caller's timeout policy. Backend errors are translated to
// user-facing errors; anything else becomes an internal error carrying failMsg.
func callRemote[T any](ctx context.Context, rc *RemoteCaller, procedure, failMsg string, call func(context.Context) (T, error)) (T, error) {
	return callRemoteSettled(ctx, rc, procedure, failMsg, call, nil)
}

// callRemoteSettled behaves like callRemote. When the timeout wins and onLate is set, onLate
// receives the outcome once the detached call finishes.
func callRemoteSettled[T any](ctx context.Context, rc *RemoteCaller, procedure, failMsg string, call func(context.Context) (T, error), onLate func(T, error)) (T, error) {
	if rc == nil {
		rc = NewRemoteCaller(0, nil, nil)
	}
	start := time.Now()
	done := make(chan remoteResult[T], 1)
	detached := context.WithoutCancel(ctx)
	go func() {
		v, err := call(detached)
		done <- remoteResult[T]{value: v, err: err}
	}()

	timer := time.NewTimer(rc.timeout)
	defer timer.Stop()

	var zero T
	select {
	case res := <-done:
		rc.metrics.ObserveProcedure(procedure, outcomeOf(res.err), time.Since(start))
		if res.err != nil {
			return zero, translateRemoteError(res.err, failMsg)
		}
		return res.value, nil
	case <-timer.C:
		rc.metrics.ObserveProcedure(procedure, "timeout", time.Since(start))
		rc.logger.Warn("remote call exceeded timeout", zap.String("procedure", procedure), zap.Duration("timeout", rc.timeout))
		go drainRemote(rc, procedure, failMsg, start, done, onLate)
		return zero, appErrors.ErrTimeout
	}
}

// drainRemote logs the outcome of a call that finished after its caller timed out.
func drainRemote[T any](rc *RemoteCaller, procedure, failMsg string, start time.Time, done <-chan remoteResult[T], onLate func(T, error)) {
	res := <-done
	fields := []zap.Field{zap.String("procedure", procedure), zap.Duration("elapsed", time.Since(start))}
	if res.err != nil {
		rc.logger.Warn("late remote call failed", append(fields, zap.Error(res.err))...)
	} else {
		rc.logger.Info("late remote call completed", fields...)
	}
	if onLate == nil {
		return
	}
	if res.err != nil {
		onLate(res.value, translateRemoteError(res.err, failMsg))
		return
	}
	onLate(res.value, nil)
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var backendErr *appErrors.BackendError
	if errors.As(err, &backendErr) {
		return string(backendErr.Code)
	}
	return "error"
}

func translateRemoteError(err error, failMsg string) error {
	var backendErr *appErrors.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Translate()
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failMsg)
}
