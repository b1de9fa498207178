package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/trip-planner/internal/infra/config"
)

// withRetry replays idempotent requests that ended in a transient 5xx, with exponential backoff.
// Store reads are the main target; POST routes run the generation pipeline and persist, so they are never replayed.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	exclusions := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		exclusions[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := exclusions[r.URL.Path]; skip || !idempotent(r.Method) {
			handler.ServeHTTP(w, r)
			return
		}

		var recorder *retryResponseRecorder
		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 {
				if !sleepContext(r, cfg.BaseBackoff*time.Duration(1<<(attempt-2))) {
					break
				}
				logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", recorder.statusCode, "attempt", attempt)
			}

			recorder = newRetryResponseRecorder()
			handler.ServeHTTP(recorder, r.Clone(r.Context()))
			if !recorder.retryable() {
				break
			}
		}
		recorder.commit(w)
	})
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func sleepContext(r *http.Request, delay time.Duration) bool {
	if delay <= 0 {
		return r.Context().Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

type retryResponseRecorder struct {
	header     http.Header
	body       bytes.Buffer
	statusCode int
	wroteHead  bool
}

func newRetryResponseRecorder() *retryResponseRecorder {
	return &retryResponseRecorder{header: make(http.Header), statusCode: http.StatusOK}
}

func (r *retryResponseRecorder) Header() http.Header {
	return r.header
}

func (r *retryResponseRecorder) WriteHeader(status int) {
	if r.wroteHead {
		return
	}
	r.statusCode = status
	r.wroteHead = true
}

func (r *retryResponseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *retryResponseRecorder) Flush() {}

func (r *retryResponseRecorder) commit(dst http.ResponseWriter) {
	dstHeader := dst.Header()
	for k, values := range r.header {
		dstHeader[k] = append([]string(nil), values...)
	}
	dst.WriteHeader(r.statusCode)
	if r.body.Len() > 0 {
		_, _ = dst.Write(r.body.Bytes())
	}
}

func (r *retryResponseRecorder) retryable() bool {
	switch r.statusCode {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
