package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefault_Idempotent(t *testing.T) {
	RegisterDefault()
	RegisterDefault()

	RouteOptimizations.WithLabelValues("ok").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(RouteOptimizations.WithLabelValues("ok")))

	families, err := Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["route_optimizations_total"])
	assert.True(t, names["go_goroutines"])
}
