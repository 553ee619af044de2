package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/Sriram-PR/bizdna/pkg/config"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// DefaultMaxBodyBytes bounds how much of a response Get reads
const DefaultMaxBodyBytes = 8 << 20

// Fetcher performs HTTP requests with retry, backoff and a global in-flight limit.
// One Fetcher may be shared by concurrent pipeline runs.
type Fetcher struct {
	client            *http.Client
	sem               *semaphore.Weighted // nil = unlimited
	userAgent         string
	maxRetries        int
	initialRetryDelay time.Duration
	maxRetryDelay     time.Duration
	log               *logrus.Entry
}

// NewFetcher creates a Fetcher using retry and concurrency settings from cfg
func NewFetcher(client *http.Client, cfg *config.AppConfig, log *logrus.Entry) *Fetcher {
	f := &Fetcher{
		client:            client,
		userAgent:         cfg.UserAgent,
		maxRetries:        cfg.MaxRetries,
		initialRetryDelay: cfg.InitialRetryDelay,
		maxRetryDelay:     cfg.MaxRetryDelay,
		log:               log,
	}
	if cfg.MaxRequests > 0 {
		f.sem = semaphore.NewWeighted(int64(cfg.MaxRequests))
	}
	return f
}

// UserAgent is the agent string sent with every request
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// FetchWithRetry executes req, retrying network errors, 5xx and 429 with exponential
// backoff and jitter. On 2xx the caller owns resp.Body. On other 4xx/3xx the response is
// returned alongside the error and the caller must close its body.
func (f *Fetcher) FetchWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if f.sem != nil {
		if err := f.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("acquiring request slot: %w", err)
		}
		defer f.sem.Release(1)
	}
	if req.Header.Get("User-Agent") == "" && f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	var lastErr error
	var currentResp *http.Response
	reqLog := f.log.WithField("url", req.URL.String())

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if ctx.Err() != nil {
			if lastErr != nil {
				return nil, fmt.Errorf("context cancelled (%v) during retry backoff after error: %w", ctx.Err(), lastErr)
			}
			return nil, fmt.Errorf("context cancelled before first attempt: %w", ctx.Err())
		}

		if attempt > 0 {
			delay := f.backoff(attempt)
			reqLog.WithFields(logrus.Fields{"attempt": attempt, "max_retries": f.maxRetries, "delay": delay}).Debug("Retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled (%v) during retry delay after error: %w", ctx.Err(), lastErr)
			}
		}

		currentResp, lastErr = f.client.Do(req.WithContext(ctx))
		if lastErr != nil {
			drainAndClose(currentResp)
			currentResp = nil
			if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
				return nil, lastErr
			}
			reqLog.WithField("attempt", attempt).Debugf("Network error: %v", lastErr)
			continue
		}

		statusCode := currentResp.StatusCode
		resLog := reqLog.WithFields(logrus.Fields{"status_code": statusCode, "attempt": attempt})
		switch {
		case statusCode >= 200 && statusCode < 300:
			resLog.Debug("Fetched")
			return currentResp, nil
		case statusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, currentResp.Status)
			drainAndClose(currentResp)
			currentResp = nil
			continue
		case statusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, currentResp.Status)
			drainAndClose(currentResp)
			currentResp = nil
			continue
		case statusCode >= 400:
			resLog.Debug("Client error (4xx), not retrying")
			return currentResp, fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, currentResp.Status)
		default:
			return currentResp, fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, currentResp.Status)
		}
	}

	reqLog.Warnf("All %d fetch attempts failed. Last error: %v", f.maxRetries+1, lastErr)
	if lastErr == nil {
		return nil, utils.ErrRetryFailed
	}
	return nil, fmt.Errorf("%w: %w", utils.ErrRetryFailed, lastErr)
}

// backoff is initial * 2^(attempt-1) capped at maxRetryDelay, with +/-10% jitter
func (f *Fetcher) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(f.initialRetryDelay) * math.Pow(2, float64(attempt-1)))
	if delay <= 0 || (f.maxRetryDelay > 0 && delay > f.maxRetryDelay) {
		delay = f.maxRetryDelay
	}
	if delay <= 0 {
		return 0
	}
	if jitterRange := int64(delay) / 5; jitterRange > 0 {
		delay += time.Duration(rand.Int63n(jitterRange)) - delay/10
	}
	if delay < 0 {
		return 0
	}
	return delay
}

// Response is a fully read response body
type Response struct {
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Get fetches rawURL with retry and reads at most maxBytes of the body
// (DefaultMaxBodyBytes when maxBytes <= 0).
func (f *Fetcher) Get(ctx context.Context, rawURL string, maxBytes int64) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)
	}
	resp, err := f.FetchWithRetry(ctx, req)
	if err != nil {
		drainAndClose(resp)
		return nil, err
	}
	defer resp.Body.Close()

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", utils.ErrResponseBodyRead, rawURL, err)
	}
	return &Response{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
