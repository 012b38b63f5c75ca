package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/types"
)

func TestFillDays_GapsGetZeroPoints(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	sparse := []RevenuePoint{
		{Date: from.AddDate(0, 0, 1), SalesCount: 2, Revenue: types.NewMoney(40)},
		{Date: from.AddDate(0, 0, 3), SalesCount: 1, Revenue: types.NewMoney(15)},
	}

	out := fillDays(from, to, sparse)
	require.Len(t, out, 5)

	assert.Equal(t, 0, out[0].SalesCount)
	assert.True(t, out[0].Revenue.IsZero())
	assert.Equal(t, 2, out[1].SalesCount)
	assert.Equal(t, 0, out[2].SalesCount)
	assert.Equal(t, 1, out[3].SalesCount)
	assert.Equal(t, 0, out[4].SalesCount)

	for i, p := range out {
		assert.Equal(t, from.AddDate(0, 0, i), p.Date)
	}
}

func TestValidatePeriod(t *testing.T) {
	now := time.Now()

	assert.Error(t, validatePeriod(time.Time{}, now))
	assert.Error(t, validatePeriod(now, time.Time{}))
	assert.Error(t, validatePeriod(now, now.AddDate(0, 0, -1)))
	assert.NoError(t, validatePeriod(now.AddDate(0, 0, -7), now))
}
