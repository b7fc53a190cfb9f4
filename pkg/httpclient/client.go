package httpclient

import (
	"fmt"
	"net/http"
	"runtime"
)

type userAgentTransport struct {
	agent string
	rt    http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Set("User-Agent", u.agent)
	return u.rt.RoundTrip(r2)
}

// UserAgent returns the User-Agent sent by keystone, e.g.
// "keystone/1.2.0 (linux; amd64)".
func UserAgent(version string) string {
	return fmt.Sprintf("keystone/%s (%s; %s)", version, runtime.GOOS, runtime.GOARCH)
}

// NewHTTPClient returns a client that identifies itself with UserAgent. It
// has no overall timeout.
func NewHTTPClient(version string) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			agent: UserAgent(version),
			rt:    http.DefaultTransport,
		},
	}
}
