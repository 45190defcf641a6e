package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

const (
	loginPath   = "auth/login"
	refreshPath = "auth/refresh"

	// IdempotencyKeyHeader identifies a replayed create on the server.
	IdempotencyKeyHeader = "Idempotency-Key"
)

var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport is the resty-based [Transport].
type HTTPTransport struct {
	client *utils.HTTPClient
	hasher *utils.Hasher

	baseURL        string
	maxAttempts    int
	retryBaseDelay time.Duration
	healthPath     string
	connectTimeout time.Duration

	session      session
	refreshGroup singleflight.Group

	logger *logger.Logger
}

// NewHTTPTransport validates the base URL and builds a transport. Zero
// numeric settings fall back to the config defaults.
func NewHTTPTransport(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (*HTTPTransport, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	t := &HTTPTransport{
		client:         utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		hasher:         utils.NewHasher(appCfg.HashKey),
		baseURL:        baseURL,
		maxAttempts:    adapterCfg.MaxAttempts,
		retryBaseDelay: adapterCfg.RetryBaseDelay,
		healthPath:     adapterCfg.HealthPath,
		connectTimeout: adapterCfg.ConnectTimeout,
		logger:         logger,
	}
	if t.maxAttempts < 1 {
		t.maxAttempts = config.DefaultMaxAttempts
	}
	if t.retryBaseDelay <= 0 {
		t.retryBaseDelay = config.DefaultRetryBaseDelay
	}
	if t.healthPath == "" {
		t.healthPath = config.DefaultHealthPath
	}
	if t.connectTimeout <= 0 {
		t.connectTimeout = config.DefaultConnectTimeout
	}

	return t, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// requestSpec is everything needed to rebuild a request for another attempt.
type requestSpec struct {
	method         string
	path           string
	query          url.Values
	body           []byte
	skipAuth       bool
	token          string
	idempotencyKey string
}

func (t *HTTPTransport) Get(ctx context.Context, path string, query url.Values, result any) error {
	return t.call(ctx, requestSpec{method: http.MethodGet, path: path, query: query}, result)
}

func (t *HTTPTransport) Post(ctx context.Context, path string, body, result any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	return t.call(ctx, requestSpec{method: http.MethodPost, path: path, body: payload}, result)
}

func (t *HTTPTransport) PostUnauthenticated(ctx context.Context, path string, body, result any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	return t.call(ctx, requestSpec{method: http.MethodPost, path: path, body: payload, skipAuth: true}, result)
}

func (t *HTTPTransport) Put(ctx context.Context, path string, body, result any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	return t.call(ctx, requestSpec{method: http.MethodPut, path: path, body: payload}, result)
}

func (t *HTTPTransport) Delete(ctx context.Context, path string) error {
	return t.call(ctx, requestSpec{method: http.MethodDelete, path: path}, nil)
}

func (t *HTTPTransport) Send(ctx context.Context, method, path string, payload []byte, idempotencyKey string, result any) error {
	return t.call(ctx, requestSpec{
		method:         strings.ToUpper(method),
		path:           path,
		body:           payload,
		idempotencyKey: idempotencyKey,
	}, result)
}

// Login implements [Transport]. The token is read from the JSON body and,
// failing that, from the Authorization response header.
func (t *HTTPTransport) Login(ctx context.Context, login, password string) error {
	payload, err := marshalBody(models.LoginRequest{Login: login, Password: password})
	if err != nil {
		return err
	}

	resp, err := t.execute(ctx, requestSpec{method: http.MethodPost, path: loginPath, body: payload, skipAuth: true})
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	auth, err := decodeAuthResponse(resp)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	t.session.set(auth.Token, auth.ExpiresAt)
	logger.FromContext(ctx).Info().Str("login", login).Time("expires_at", auth.ExpiresAt).Msg("logged in")
	return nil
}

func (t *HTTPTransport) Logout() {
	t.session.clear()
}

func (t *HTTPTransport) IsAuthenticated() bool {
	return t.session.Token() != ""
}

func decodeAuthResponse(resp *resty.Response) (models.AuthResponse, error) {
	var auth models.AuthResponse
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &auth); err != nil {
			return auth, fmt.Errorf("decode auth response: %w", err)
		}
	}

	if auth.Token == "" {
		if token, err := utils.ParseBearerToken(resp.Header().Get("Authorization")); err == nil {
			auth.Token = token
			auth.Succeeded = true
		}
	}
	if !auth.Succeeded || auth.Token == "" {
		msg := auth.Message
		if msg == "" {
			msg = "no token in response"
		}
		return auth, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}

	if auth.ExpiresAt.IsZero() {
		if exp, err := utils.TokenExpiry(auth.Token); err == nil {
			auth.ExpiresAt = exp
		}
	}
	return auth, nil
}

// call runs the request and maps a non-2xx response to an error; otherwise
// the body is decoded into result.
func (t *HTTPTransport) call(ctx context.Context, spec requestSpec, result any) error {
	resp, err := t.execute(ctx, spec)
	if err != nil {
		return err
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	if result != nil && len(resp.Body()) > 0 {
		if err = json.Unmarshal(resp.Body(), result); err != nil {
			return fmt.Errorf("decode %s %s response: %w", spec.method, spec.path, err)
		}
	}
	return nil
}

// execute sends spec with retry. A 401 on an authenticated request triggers
// one credential refresh followed by one more send; if the refresh fails the
// original 401 response is returned.
func (t *HTTPTransport) execute(ctx context.Context, spec requestSpec) (*resty.Response, error) {
	if !spec.skipAuth {
		spec.token = t.session.Token()
	}

	resp, err := t.executeWithRetry(ctx, spec)
	if err != nil || resp.StatusCode() != http.StatusUnauthorized || spec.skipAuth {
		return resp, err
	}

	log := logger.FromContext(ctx)

	// another caller may have refreshed while this request was in flight
	current := t.session.Token()
	if current == "" || current == spec.token {
		if refreshErr := t.refresh(ctx, spec.token); refreshErr != nil {
			log.Warn().Err(refreshErr).Str("func", "*HTTPTransport.execute").Msg("credential refresh failed")
			return resp, nil
		}
	}

	spec.token = t.session.Token()
	return t.executeWithRetry(ctx, spec)
}

func (t *HTTPTransport) refresh(ctx context.Context, expired string) error {
	if expired == "" {
		return ErrNotAuthenticated
	}

	_, err, _ := t.refreshGroup.Do(refreshPath, func() (any, error) {
		resp, err := t.executeWithRetry(ctx, requestSpec{
			method:   http.MethodPost,
			path:     refreshPath,
			skipAuth: true,
			token:    expired,
		})
		if err != nil {
			return nil, err
		}
		if err = mapHTTPError(resp); err != nil {
			return nil, err
		}

		auth, err := decodeAuthResponse(resp)
		if err != nil {
			return nil, err
		}

		t.session.set(auth.Token, auth.ExpiresAt)
		logger.FromContext(ctx).Info().Time("expires_at", auth.ExpiresAt).Msg("credential refreshed")
		return nil, nil
	})
	return err
}

// executeWithRetry sends spec up to maxAttempts times while the outcome is
// transient. A fresh request is built from the captured body every attempt.
func (t *HTTPTransport) executeWithRetry(ctx context.Context, spec requestSpec) (*resty.Response, error) {
	log := logger.FromContext(ctx)

	var (
		resp      *resty.Response
		attempts  int
		transient bool
	)

	backoff := retry.WithMaxRetries(uint64(t.maxAttempts-1), retry.NewExponential(t.retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		transient = false

		r, sendErr := t.newRequest(ctx, spec).Execute(spec.method, spec.path)
		if sendErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			transient = true
			log.Warn().Err(sendErr).
				Str("method", spec.method).
				Str("path", spec.path).
				Int("attempt", attempts).
				Msg("request failed, retrying")
			return retry.RetryableError(fmt.Errorf("%w: %w", ErrUnreachable, sendErr))
		}

		if isTransientStatus(r.StatusCode()) {
			transient = true
			log.Warn().
				Str("method", spec.method).
				Str("path", spec.path).
				Int("status", r.StatusCode()).
				Int("attempt", attempts).
				Msg("transient response, retrying")
			return retry.RetryableError(mapHTTPError(r))
		}

		resp = r
		return nil
	})
	if err != nil {
		if transient {
			return nil, &TransientError{Attempts: attempts, Err: err}
		}
		return nil, err
	}

	return resp, nil
}

func (t *HTTPTransport) newRequest(ctx context.Context, spec requestSpec) *resty.Request {
	req := t.client.R().SetContext(ctx)

	if spec.token != "" {
		req.SetAuthToken(spec.token)
	}
	if len(spec.query) > 0 {
		req.SetQueryParamsFromValues(spec.query)
	}
	if spec.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(spec.body)
		if t.hasher != nil {
			req.SetHeader(utils.HashHeader, t.hasher.Sum(spec.body))
		}
	}
	if spec.idempotencyKey != "" {
		req.SetHeader(IdempotencyKeyHeader, spec.idempotencyKey)
	}

	return req
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.([]byte); ok {
		return raw, nil
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}

// TestConnection implements [Transport].
func (t *HTTPTransport) TestConnection(ctx context.Context) models.ConnectionReport {
	target, err := url.Parse(t.baseURL + "/" + strings.TrimLeft(t.healthPath, "/"))
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return models.ConnectionReport{Message: fmt.Sprintf("Invalid server URL %q", t.baseURL)}
	}

	ctx, cancel := context.WithTimeout(ctx, t.connectTimeout)
	defer cancel()

	start := time.Now()
	resp, err := t.client.R().SetContext(ctx).Get(target.String())
	latency := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.ConnectionReport{
				Latency: latency,
				Message: fmt.Sprintf("Connection timed out after %s", t.connectTimeout),
			}
		}
		return models.ConnectionReport{
			Latency: latency,
			Message: fmt.Sprintf("Cannot reach server: %v", err),
		}
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return models.ConnectionReport{
			StatusCode: resp.StatusCode(),
			Latency:    latency,
			Message:    fmt.Sprintf("Server responded with HTTP %d %s", resp.StatusCode(), http.StatusText(resp.StatusCode())),
		}
	}

	return models.ConnectionReport{
		OK:         true,
		StatusCode: resp.StatusCode(),
		Latency:    latency,
		Message:    fmt.Sprintf("Connected to %s in %s", t.baseURL, latency.Round(time.Millisecond)),
	}
}
