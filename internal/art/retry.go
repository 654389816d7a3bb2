package art

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/youruser/cardforge/internal/errors"
)

// RetryableError marks transient failures: transport errors, 429 and 5xx.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// retry runs fn up to attempts times, doubling delay after each retryable
// failure. Other errors are returned at once.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !stderrors.As(err, new(*RetryableError)) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// do sends req and returns the body of a 200 response.
func do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", req.Method, req.URL.Host)
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", req.Method, req.URL.Host)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read response")}
	}
	return body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests:
		return &RetryableError{Err: errors.New(errors.ErrCodeRateLimited, "rate limited by %s", resp.Request.URL.Host)}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeInvalidConfig, "%s rejected the credentials: status %d", resp.Request.URL.Host, code)
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s: status %d", resp.Request.URL.Host, code)}
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return errors.New(errors.ErrCodeNetwork, "%s: status %d: %s", resp.Request.URL.Host, code, snippet)
	}
}
