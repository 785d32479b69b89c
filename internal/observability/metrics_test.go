package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg), "registering twice is not an error")

	LLMRequests.WithLabelValues("classify_title", "ok").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(LLMRequests.WithLabelValues("classify_title", "ok")), 1.0)

	n, err := testutil.GatherAndCount(reg, "llm_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}
