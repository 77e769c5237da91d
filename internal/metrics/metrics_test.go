package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := New(reg)
	require.NoError(t, err)

	rec.Dispatched("payments", "add")
	rec.Dispatched("payments", "add")
	rec.Dispatched("notifications", "prepend")
	rec.Written("academy_data")
	rec.Skipped("empty_students")
	rec.NotificationEmitted("admin")
	rec.Observe(context.Background(), "add_payment", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "update_payment", false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.dispatches.WithLabelValues("payments", "add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.dispatches.WithLabelValues("notifications", "prepend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.writes.WithLabelValues("academy_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.skipped.WithLabelValues("empty_students")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.notifications.WithLabelValues("admin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.mutations.WithLabelValues("add_payment", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.mutations.WithLabelValues("update_payment", "error")))

	count, err := testutil.GatherAndCount(reg, "academy_dispatch_total", "academy_mutations_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRecorderDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestRecorderWithoutRegistry(t *testing.T) {
	rec, err := New(nil)
	require.NoError(t, err)
	rec.Written("academy_user")
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.writes.WithLabelValues("academy_user")))
}
