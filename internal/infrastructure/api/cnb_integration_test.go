// internal/infrastructure/api/cnb_integration_test.go
package api

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/domain/bulletin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCNBIntegration(t *testing.T) {
	// This test makes actual API calls - skip in short mode and CI
	if testing.Short() {
		t.Skip("Skipping CNB integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := NewCNBClient(WithLogger(quietLogger()))

	text, err := client.FetchBulletin(ctx)
	if err != nil {
		t.Skipf("CNB not reachable: %v", err)
	}

	list, err := bulletin.Parse(text)
	require.NoError(t, err, "live bulletin should parse")

	assert.NotEmpty(t, list.Rates)
	for _, code := range []string{"EUR", "USD", "GBP", "JPY"} {
		rate, ok := list.FindRate(code)
		if !ok {
			t.Logf("%s missing from today's bulletin", code)
			continue
		}
		assert.Greater(t, rate.Rate, 0.0)
		t.Logf("%s: %d = %.3f CZK", code, rate.Amount, rate.Rate)
	}

	date, err := list.EffectiveDate()
	require.NoError(t, err)
	assert.True(t, date.Before(time.Now().Add(24*time.Hour)))
}
