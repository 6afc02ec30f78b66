package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_ReturnsUTC(t *testing.T) {
	now := NewSystem().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestFixed(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	clk := NewFixed(start)

	assert.True(t, clk.Now().Equal(start))
	assert.Equal(t, time.UTC, clk.Now().Location())

	clk.Advance(36 * time.Hour)
	assert.Equal(t, time.Date(2025, 8, 2, 22, 0, 0, 0, time.UTC), clk.Now())

	clk.Set(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2030, clk.Now().Year())
}
