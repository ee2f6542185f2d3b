package runtime

import (
	"context"
	"fmt"
	"net/http"
)

// AuthStrategy mutates an outgoing request to carry credentials. Each
// strategy receives the request's header set and URL and may change either; strategies
// are applied in declaration order, once per attempt (so a dynamic bearer token is
// re-awaited on every retry, letting rotating tokens stay fresh).
type AuthStrategy interface {
	Apply(ctx context.Context, req *http.Request) error
}

// TokenFunc produces a bearer token, possibly asynchronously (e.g. refreshing from a
// token endpoint). It is invoked once per request attempt.
type TokenFunc func(ctx context.Context) (string, error)

// BearerAuth carries either a static token or a dynamic TokenFunc; exactly one should
// be set.
type BearerAuth struct {
	Token     string
	TokenFunc TokenFunc
}

func (a BearerAuth) Apply(ctx context.Context, req *http.Request) error {
	token := a.Token
	if a.TokenFunc != nil {
		t, err := a.TokenFunc(ctx)
		if err != nil {
			return fmt.Errorf("bearer auth: %w", err)
		}
		token = t
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// BasicAuth base64-encodes "user:pass" into the Authorization header.
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) Apply(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// APIKeyLocation selects where an API key auth strategy places its value.
type APIKeyLocation string

const (
	APIKeyInHeader APIKeyLocation = "header"
	APIKeyInQuery  APIKeyLocation = "query"
	APIKeyInCookie APIKeyLocation = "cookie"
)

// APIKeyAuth places a static key value in a header, query parameter, or cookie.
type APIKeyAuth struct {
	In    APIKeyLocation
	Name  string
	Value string
}

func (a APIKeyAuth) Apply(_ context.Context, req *http.Request) error {
	switch a.In {
	case APIKeyInHeader:
		req.Header.Set(a.Name, a.Value)
	case APIKeyInQuery:
		q := req.URL.Query()
		q.Set(a.Name, a.Value)
		req.URL.RawQuery = q.Encode()
	case APIKeyInCookie:
		req.AddCookie(&http.Cookie{Name: a.Name, Value: a.Value})
	default:
		return fmt.Errorf("apiKey auth: unknown location %q", a.In)
	}
	return nil
}

// CustomAuth wraps an arbitrary function over the request, for auth schemes the other
// strategies don't cover (signed requests, mTLS header stamping, etc).
type CustomAuth struct {
	Fn func(ctx context.Context, req *http.Request) error
}

func (a CustomAuth) Apply(ctx context.Context, req *http.Request) error {
	return a.Fn(ctx, req)
}

func applyAuthStrategies(ctx context.Context, req *http.Request, strategies []AuthStrategy) error {
	for _, s := range strategies {
		if err := s.Apply(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
