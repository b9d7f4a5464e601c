package httpclient

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/api/metrics"
	"github.com/revtickets/portal/internal/core/ports"
)

// Options configures New.
type Options struct {
	// Store supplies the bearer token for each request.
	Store ports.CredentialStore
	// Transport is the base transport. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// Extra stages run after the authenticator.
	Stages []Stage
	Log    zerolog.Logger
}

// New builds the upstream HTTP client: authenticator first, then any extra
// stages, then the base transport instrumented with upstream metrics.
//
// The client has no timeout; callers that want one pass a deadline on the
// request context.
func New(opts Options) *http.Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	instrumented := promhttp.InstrumentRoundTripperCounter(metrics.UpstreamRequestsTotal,
		promhttp.InstrumentRoundTripperDuration(metrics.UpstreamRequestDuration, base))

	stages := append([]Stage{Authenticator(opts.Store, opts.Log)}, opts.Stages...)
	return &http.Client{Transport: NewPipeline(instrumented, stages...)}
}
