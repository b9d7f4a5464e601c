package httpclient

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/api/metrics"
	"github.com/revtickets/portal/internal/core/ports"
)

// Authenticator returns the stage that attaches the stored bearer token.
//
// With a token T the request is cloned and Authorization is set to
// "Bearer T", replacing any previous value. Without one the request passes
// through untouched; the upstream decides whether to reject it.
func Authenticator(store ports.CredentialStore, log zerolog.Logger) Stage {
	return func(req *http.Request) *http.Request {
		token, ok := store.Get(req.Context())
		metrics.OutboundRequestsTotal.WithLabelValues(strconv.FormatBool(ok)).Inc()

		if !ok {
			log.Debug().
				Bool("token_attached", false).
				Str("url", req.URL.String()).
				Msg("no token found for request")
			return req
		}

		out := req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+string(token))
		log.Debug().
			Bool("token_attached", true).
			Str("url", req.URL.String()).
			Msg("token added to request")
		return out
	}
}
