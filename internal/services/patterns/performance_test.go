package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/tally/internal/models"
)

func TestPerformance_FromTable(t *testing.T) {
	m := newTestMatcher()

	tbls := []models.Table{
		{
			Headers: []string{"Name", "YTD", "1 Year", "3 Year", "5 Year", "Since Inception"},
			Rows: [][]string{
				{"Benchmark", "4.0%", "6.0%", "5.5%", "5.0%", "7.0%"},
				{"Total Portfolio", "5.2%", "8.1%", "6.3%", "7.4%", "9.0%"},
			},
		},
	}

	metrics := m.Performance("", tbls)

	// First row matching portfolio/total/fund wins; here the benchmark
	// row matches nothing so the portfolio row is used.
	require.NotNil(t, metrics.YTD)
	assert.InDelta(t, 0.052, *metrics.YTD, 1e-9)
	require.NotNil(t, metrics.OneYear)
	assert.InDelta(t, 0.081, *metrics.OneYear, 1e-9)
	require.NotNil(t, metrics.ThreeYear)
	assert.InDelta(t, 0.063, *metrics.ThreeYear, 1e-9)
	require.NotNil(t, metrics.FiveYear)
	assert.InDelta(t, 0.074, *metrics.FiveYear, 1e-9)
	require.NotNil(t, metrics.SinceInception)
	assert.InDelta(t, 0.09, *metrics.SinceInception, 1e-9)
}

func TestPerformance_FirstMatchingRowStopsScan(t *testing.T) {
	m := newTestMatcher()

	tbls := []models.Table{
		{
			Headers: []string{"Name", "YTD"},
			Rows: [][]string{
				{"Fund A", "3.0%"},
				{"Total", "9.9%"},
			},
		},
	}

	metrics := m.Performance("", tbls)
	require.NotNil(t, metrics.YTD)
	assert.InDelta(t, 0.03, *metrics.YTD, 1e-9)
}

func TestPerformance_ExactColumnMatchOnly(t *testing.T) {
	m := newTestMatcher()

	// "10 Year Return" must not be claimed by the loose "year" notion;
	// period columns use exact matching.
	tbls := []models.Table{
		{
			Headers: []string{"Name", "10 Year"},
			Rows:    [][]string{{"Total Portfolio", "12.0%"}},
		},
	}

	metrics := m.Performance("", tbls)
	assert.True(t, metrics.IsEmpty())
}

func TestPerformance_MissingColumnsStayNil(t *testing.T) {
	m := newTestMatcher()

	tbls := []models.Table{
		{
			Headers: []string{"Name", "YTD", "1 Year"},
			Rows:    [][]string{{"Total", "5.2%", "8.1%"}},
		},
	}

	metrics := m.Performance("", tbls)
	require.NotNil(t, metrics.YTD)
	require.NotNil(t, metrics.OneYear)
	assert.Nil(t, metrics.ThreeYear)
	assert.Nil(t, metrics.FiveYear)
	assert.Nil(t, metrics.SinceInception)
}

func TestPerformance_TextFallback(t *testing.T) {
	m := newTestMatcher()

	text := "Performance summary. YTD: 15.7%. 1 Year: 8.2%. 3 years: -1.5%. Since inception: 24.8%."

	metrics := m.Performance(text, nil)

	require.NotNil(t, metrics.YTD)
	assert.InDelta(t, 0.157, *metrics.YTD, 1e-9)
	require.NotNil(t, metrics.OneYear)
	assert.InDelta(t, 0.082, *metrics.OneYear, 1e-9)
	require.NotNil(t, metrics.ThreeYear)
	assert.InDelta(t, -0.015, *metrics.ThreeYear, 1e-9)
	assert.Nil(t, metrics.FiveYear)
	require.NotNil(t, metrics.SinceInception)
	assert.InDelta(t, 0.248, *metrics.SinceInception, 1e-9)
}

func TestPerformance_TableWinsOverText(t *testing.T) {
	m := newTestMatcher()

	tbls := []models.Table{
		{
			Headers: []string{"Name", "YTD"},
			Rows:    [][]string{{"Total", "5.0%"}},
		},
	}

	metrics := m.Performance("YTD: 99.0%", tbls)
	require.NotNil(t, metrics.YTD)
	assert.InDelta(t, 0.05, *metrics.YTD, 1e-9)
}

func TestPerformance_NoSignal(t *testing.T) {
	m := newTestMatcher()
	metrics := m.Performance("nothing to see", nil)
	assert.True(t, metrics.IsEmpty())
}
