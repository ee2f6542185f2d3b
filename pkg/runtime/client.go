// Package runtime is the request executor the emitted SDKs depend on:
// URL building, body serialization, retry, lifecycle hooks, pluggable authentication,
// and streaming response parsing. It is imported directly by the Go target's generated
// client code, and its behavior is the reference the TypeScript target's generated
// utils.ts runtime re-expresses in TypeScript.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType selects how RequestOptions.Body is serialized onto the wire
// on the wire.
type ContentType string

const (
	ContentJSON      ContentType = "application/json"
	ContentForm      ContentType = "application/x-www-form-urlencoded"
	ContentMultipart ContentType = "multipart/form-data"
	ContentRaw       ContentType = "application/octet-stream"
)

// ClientConfig configures a Client: base URL, default headers, timeout, retry policy,
// hook registry, authentication strategies, credentials mode, and an optional custom
// transport.
type ClientConfig struct {
	BaseURL         string
	DefaultHeaders  http.Header
	Timeout         time.Duration
	Retry           RetryPolicy
	Hooks           Hooks
	Auth            []AuthStrategy
	CredentialsMode CredentialsMode
	Transport       http.RoundTripper
}

// CredentialsMode mirrors the browser fetch() credentials modes the TypeScript runtime
// exposes; the Go runtime honors it only for documentation/parity, since net/http has
// no analogous concept (cookies are managed by an explicit http.CookieJar instead).
type CredentialsMode string

const (
	CredentialsSameOrigin CredentialsMode = "same-origin"
	CredentialsInclude    CredentialsMode = "include"
	CredentialsOmit       CredentialsMode = "omit"
)

// Client executes requests built by generated service methods.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient builds a Client from cfg, applying a 30s default timeout when unset.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
	}
}

// RequestOptions describes one logical call a generated service method makes.
type RequestOptions struct {
	Method      string
	Path        string
	Query       url.Values
	Headers     http.Header
	ContentType ContentType
	Body        any
	// MultipartFields is consulted only when ContentType is ContentForm or
	// ContentMultipart.
	MultipartFields map[string]string
}

// Do executes a single request end-to-end: merge headers, apply auth, serialize the
// body, fire hooks, run the transport, retry on a retryable outcome, and decode the
// response into out (a pointer, or nil for a void response). Hook order is fixed:
// beforeRequest, transport call, afterRequest, parse response, afterResponse/onError.
func (c *Client) Do(ctx context.Context, opts RequestOptions, out any) error {
	attempt := 0
	for {
		req, err := c.buildRequest(ctx, opts)
		if err != nil {
			return err
		}

		c.cfg.Hooks.fireBeforeRequest(req)
		resp, doErr := c.httpClient.Do(req)
		c.cfg.Hooks.fireAfterRequest(req, resp, doErr)

		if doErr == nil && resp != nil {
			defer resp.Body.Close()
		}

		if doErr == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err := decodeResponse(resp, out)
			c.cfg.Hooks.fireAfterResponse(resp)
			return err
		}

		var typedErr error
		if doErr == nil && resp != nil {
			c.cfg.Hooks.fireAfterResponse(resp)
			body, _ := io.ReadAll(resp.Body)
			typedErr = newTypedError(resp.StatusCode, resp.Status, body)
		} else {
			typedErr = doErr
		}

		delay, retry := c.cfg.Retry.shouldRetry(attempt, resp, doErr)
		if !retry {
			c.cfg.Hooks.fireOnError(typedErr)
			return typedErr
		}

		c.cfg.Hooks.fireBeforeRetry(attempt, resp, doErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		c.cfg.Hooks.fireAfterRetry(attempt, resp, doErr)
		attempt++
	}
}

// DoStream executes a streaming request: same pipeline up to the first response, then
// hands the body off to a format-specific lazy parser instead of decoding JSON.
func (c *Client) DoStream(ctx context.Context, opts RequestOptions, format StreamFormat) (*Stream, error) {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}
	c.cfg.Hooks.fireBeforeRequest(req)
	resp, err := c.httpClient.Do(req)
	c.cfg.Hooks.fireAfterRequest(req, resp, err)
	if err != nil {
		c.cfg.Hooks.fireOnError(err)
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		typedErr := newTypedError(resp.StatusCode, resp.Status, body)
		c.cfg.Hooks.fireOnError(typedErr)
		return nil, typedErr
	}
	c.cfg.Hooks.fireAfterResponse(resp)
	return newStream(ctx, resp.Body, format), nil
}

func (c *Client) buildRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(opts.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("runtime: invalid path %q: %w", opts.Path, err)
	}
	if len(opts.Query) > 0 {
		u.RawQuery = opts.Query.Encode()
	}

	body, contentType, err := serializeBody(opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), body)
	if err != nil {
		return nil, err
	}

	// Per-call headers win over client defaults.
	mergeHeaders(req.Header, c.cfg.DefaultHeaders)
	mergeHeaders(req.Header, opts.Headers)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	if err := applyAuthStrategies(ctx, req, c.cfg.Auth); err != nil {
		return nil, err
	}
	return req, nil
}

// mergeHeaders copies src into dst, overwriting any existing values for the same key
// (later callers of mergeHeaders therefore win, implementing the precedence order the
// caller establishes by call order).
func mergeHeaders(dst, src http.Header) {
	for k, vs := range src {
		dst.Del(k)
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// serializeBody picks the wire form per content type: JSON marshals opts.Body (an
// io.Reader body is sent as-is, with no automatic content-type); form-urlencoded
// encodes MultipartFields, one value per key, and ignores opts.Body; multipart writes
// MultipartFields as form fields, ignores opts.Body, and sets the multipart content type
// with its boundary; any other content type passes an io.Reader body through
// unchanged, with no automatic content-type.
func serializeBody(opts RequestOptions) (io.Reader, string, error) {
	if opts.Body == nil && opts.ContentType != ContentMultipart {
		return nil, "", nil
	}
	switch opts.ContentType {
	case ContentJSON, "":
		if opts.Body == nil {
			return nil, "", nil
		}
		if raw, ok := opts.Body.(io.Reader); ok {
			return raw, "", nil
		}
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, "", fmt.Errorf("runtime: marshal json body: %w", err)
		}
		return bytes.NewReader(b), string(ContentJSON), nil
	case ContentForm:
		values := url.Values{}
		for k, v := range opts.MultipartFields {
			values.Add(k, v)
		}
		return strings.NewReader(values.Encode()), string(ContentForm), nil
	case ContentMultipart:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range opts.MultipartFields {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return buf, w.FormDataContentType(), nil
	default:
		if raw, ok := opts.Body.(io.Reader); ok {
			return raw, "", nil
		}
		return nil, "", fmt.Errorf("runtime: unsupported content type %q for non-stream body", opts.ContentType)
	}
}

func decodeResponse(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err := io.Copy(w, resp.Body)
		return err
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("runtime: decode response: %w", err)
	}
	return nil
}
