// Package httpclient builds the outbound HTTP client used to talk to the
// upstream API. Every request passes an ordered list of stages before it is
// dispatched.
package httpclient

import (
	"net/http"
)

// Stage transforms an outbound request before dispatch. A stage must not
// mutate its input: it returns either the same request or a modified clone.
type Stage func(*http.Request) *http.Request

// Pipeline applies its stages in order and hands the result to Next. It never
// looks at the response.
type Pipeline struct {
	Stages []Stage
	Next   http.RoundTripper
}

// NewPipeline creates a pipeline over next (http.DefaultTransport when nil).
// Panics on a nil stage so a miswired client fails at startup.
func NewPipeline(next http.RoundTripper, stages ...Stage) *Pipeline {
	for _, s := range stages {
		if s == nil {
			panic("httpclient: nil pipeline stage")
		}
	}
	if next == nil {
		next = http.DefaultTransport
	}
	return &Pipeline{Stages: stages, Next: next}
}

// Apply runs the stages without dispatching.
func (p *Pipeline) Apply(req *http.Request) *http.Request {
	for _, stage := range p.Stages {
		req = stage(req)
	}
	return req
}

// RoundTrip satisfies http.RoundTripper.
func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	return p.Next.RoundTrip(p.Apply(req))
}
