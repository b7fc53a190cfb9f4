package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/keystone-go/keystone/pkg/telemetry/projectinfo"
)

func TestDeliveryGoroutineExits(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestSetup(t, nil)
	for range 5 {
		s.client.ReportEvent(t.Context(), EventTypeDev, t.TempDir(), "sqlite", projectinfo.Schema{})
	}
	s.wait(t)

	assert.Equal(t, 5, s.http.GetRequestCount())
}

func TestReportEvent_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := newTestSetup(t, map[string]string{EnvEndpoint: url}, WithHTTPClient(&http.Client{}))

	assert.NotPanics(t, func() {
		s.client.ReportEvent(t.Context(), EventTypeDev, t.TempDir(), "sqlite", projectinfo.Schema{})
	})
	s.wait(t)
}
