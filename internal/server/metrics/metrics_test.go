package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsRegistered(t *testing.T) {
	for _, c := range []prometheus.Collector{AuthAttemptsTotal, AuthorizationDeniedTotal, HTTPRequestsTotal, HTTPRequestDuration} {
		err := prometheus.Register(c)
		_, already := err.(prometheus.AlreadyRegisteredError)
		assert.True(t, already, "collector should be registered in init, got %v", err)
	}
}

func TestAuthAttemptsTotal_Increments(t *testing.T) {
	c := AuthAttemptsTotal.WithLabelValues("login", "metrics_test")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
