package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gridfleet-go/internal/application/mediator"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/commands"
	"github.com/andrescamacho/gridfleet-go/internal/application/sim/queries"
)

func TestExtractCommandName_StripsThePackagePrefix(t *testing.T) {
	assert.Equal(t, "InitializeCommand", extractCommandName(&commands.InitializeCommand{}))
	assert.Equal(t, "GetStateQuery", extractCommandName(&queries.GetStateQuery{}))
	assert.Equal(t, "UnknownCommand", extractCommandName(nil))
}

func TestPrometheusMiddleware_RecordsEachOutcome(t *testing.T) {
	collector := NewCommandMetricsCollector()
	mw := PrometheusMiddleware(collector)

	resp, err := mw(context.Background(), &commands.StepCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "advanced", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "advanced", resp)

	_, err = mw(context.Background(), &commands.StepCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("no simulation initialized")
	})
	require.EqualError(t, err, "no simulation initialized")

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("StepCommand", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("StepCommand", "error")))
}

func TestPrometheusMiddleware_PassesThroughWithoutACollector(t *testing.T) {
	mw := PrometheusMiddleware(nil)

	resp, err := mw(context.Background(), &commands.StepCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "untouched", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "untouched", resp)
}
