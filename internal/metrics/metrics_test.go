package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistered(t *testing.T) {
	for name, c := range map[string]prometheus.Collector{
		"resolutions": Resolutions,
		"duration":    ResolveDuration,
		"cache":       CacheRequests,
		"loads":       StoreLoadTotal,
		"load_errors": StoreLoadErrorsTotal,
	} {
		if err := prometheus.Register(c); err == nil {
			t.Errorf("%s was not registered at init", name)
		}
	}
}

func TestResolutionsByResult(t *testing.T) {
	before := testutil.ToFloat64(Resolutions.WithLabelValues("admin"))
	Resolutions.WithLabelValues("admin").Inc()
	if got := testutil.ToFloat64(Resolutions.WithLabelValues("admin")); got != before+1 {
		t.Fatalf("admin = %v, want %v", got, before+1)
	}
}
