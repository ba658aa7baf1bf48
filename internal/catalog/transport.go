package catalog

import (
	"net/http"
)

// Transport is the only thing the gateway needs from the network.
// *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenHeader carries the remote store's API token
const TokenHeader = "xc-token"

// TokenTransport injects the API token into every outgoing request
type TokenTransport struct {
	Token string
	Base  http.RoundTripper
}

func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Token == "" {
		return base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(TokenHeader, t.Token)
	return base.RoundTrip(r)
}

// NewHTTPClient returns a client that authenticates with token when it is not empty.
// No timeout is set; callers bound requests through their context.
func NewHTTPClient(token string) *http.Client {
	return &http.Client{Transport: &TokenTransport{Token: token}}
}
