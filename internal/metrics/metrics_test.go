package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuote(t *testing.T) {
	before := testutil.ToFloat64(QuotesComputed.WithLabelValues("repair"))

	ObserveQuote("repair", 4050)

	assert.Equal(t, before+1, testutil.ToFloat64(QuotesComputed.WithLabelValues("repair")))
}
