package runtime

import "net/http"

// Hooks are lifecycle callbacks fired at named stages of a request. Any hook may be
// nil.
type Hooks struct {
	BeforeRequest func(req *http.Request)
	AfterRequest  func(req *http.Request, resp *http.Response, err error)
	BeforeRetry   func(attempt int, resp *http.Response, err error)
	AfterRetry    func(attempt int, resp *http.Response, err error)
	AfterResponse func(resp *http.Response)
	OnError       func(err error)
}

func (h Hooks) fireBeforeRequest(req *http.Request) {
	if h.BeforeRequest != nil {
		h.BeforeRequest(req)
	}
}

func (h Hooks) fireAfterRequest(req *http.Request, resp *http.Response, err error) {
	if h.AfterRequest != nil {
		h.AfterRequest(req, resp, err)
	}
}

func (h Hooks) fireBeforeRetry(attempt int, resp *http.Response, err error) {
	if h.BeforeRetry != nil {
		h.BeforeRetry(attempt, resp, err)
	}
}

func (h Hooks) fireAfterRetry(attempt int, resp *http.Response, err error) {
	if h.AfterRetry != nil {
		h.AfterRetry(attempt, resp, err)
	}
}

func (h Hooks) fireAfterResponse(resp *http.Response) {
	if h.AfterResponse != nil {
		h.AfterResponse(resp)
	}
}

func (h Hooks) fireOnError(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}
