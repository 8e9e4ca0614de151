package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SuccessfulActions.WithLabelValues("signin").Inc()
	m.FollowRequests.WithLabelValues("follow").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SuccessfulActions.WithLabelValues("signin")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FollowRequests.WithLabelValues("follow")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
