package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daap14/billing/internal/ledger"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"active", "trialing", "past_due", "cancelled", "expired"} {
		got, err := ledger.ParseStatus(s)
		assert.NoError(t, err, s)
		assert.Equal(t, ledger.Status(s), got)
	}

	for _, s := range []string{"", "ACTIVE", "paused", "canceled"} {
		_, err := ledger.ParseStatus(s)
		assert.Error(t, err, s)
	}
}

func TestParseCycleType(t *testing.T) {
	t.Parallel()

	got, err := ledger.ParseCycleType("monthly")
	assert.NoError(t, err)
	assert.Equal(t, ledger.CycleMonthly, got)

	got, err = ledger.ParseCycleType("yearly")
	assert.NoError(t, err)
	assert.Equal(t, ledger.CycleYearly, got)

	_, err = ledger.ParseCycleType("weekly")
	assert.Error(t, err)
}
