package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authclient "github.com/medlan/authclient"
)

type fakeSource struct {
	snapshot authclient.MetricsSnapshot
}

func (f fakeSource) MetricsSnapshot() authclient.MetricsSnapshot { return f.snapshot }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authclient.MetricsSnapshot{
			Counters: map[authclient.MetricID]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesEveryCounter(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authclient.MetricsSnapshot{
			Counters: map[authclient.MetricID]uint64{
				authclient.MetricLoginSuccess:   7,
				authclient.MetricForcedLogout:   2,
				authclient.MetricSessionExpired: 1,
			},
		},
	})

	out := exp.Render()
	if !strings.Contains(out, "authclient_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authclient_forced_logout_total 2") {
		t.Fatalf("expected forced_logout counter in output, got:\n%s", out)
	}
	// Counters not present in the snapshot still render as zero so
	// scrapes have a stable series set.
	if !strings.Contains(out, "authclient_route_denied_total 0") {
		t.Fatalf("expected zero-valued route_denied counter, got:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE authclient_login_success_total counter") {
		t.Fatalf("expected TYPE line, got:\n%s", out)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authclient.MetricsSnapshot{
			Counters: map[authclient.MetricID]uint64{
				authclient.MetricRefreshSuccess: 3,
			},
		},
	})

	srv := httptest.NewServer(exp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
