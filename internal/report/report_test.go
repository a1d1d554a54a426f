package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/logger"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

func testResult(t *testing.T, n int) *simulation.Result {
	t.Helper()
	sim := simulation.New(simulation.WithSeed(99), simulation.WithLogger(logger.Discard()))
	res, err := sim.Simulate(3, 5, n)
	require.NoError(t, err)
	return res
}

func TestSolveText(t *testing.T) {
	m, err := analytic.ResolveRates(1, 1, 1, 4)
	require.NoError(t, err)

	got := SolveText(m)
	assert.True(t, strings.HasPrefix(got, "L: 2\nLq: "), got)
	assert.Contains(t, got, "Ru: 1\n")

	detail := SolveDetail(m)
	assert.True(t, strings.HasPrefix(detail, "Model: M/M/1/K\n"))
	assert.Contains(t, detail, "Blocking Probability: 0.2\n")
}

func TestStatsText(t *testing.T) {
	got := StatsText(models.AggregateStats{
		MeanWaitingTime:            0.125,
		MeanServiceTime:            0.2,
		MeanInterarrivalTime:       1.0 / 3,
		MeanWaitingTimeGivenWaited: 0,
		MeanTimeInSystem:           2.345,
	})
	want := "Average Waiting Time: 0.12\n" +
		"Average Service Time: 0.20\n" +
		"Average Time Between Arrivals: 0.33\n" +
		"Average Waiting Time of Those Who Wait: 0.00\n" +
		"Average Time a Customer Spends in the System: 2.35\n"
	assert.Equal(t, want, got)
}

func TestRecordsTable(t *testing.T) {
	res := testResult(t, 5)

	var buf bytes.Buffer
	require.NoError(t, RecordsTable(&buf, res.Records))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	for _, col := range RecordColumns {
		assert.Contains(t, lines[0], col)
	}
	assert.Equal(t, "1", strings.Fields(lines[1])[0])
	assert.Equal(t, "5", strings.Fields(lines[5])[0])
}

func TestRender(t *testing.T) {
	res := testResult(t, 10)
	rep, err := Render(res)
	require.NoError(t, err)
	assert.Equal(t, StatsText(res.Stats), rep.Stats)
	assert.Equal(t, 11, strings.Count(rep.Table, "\n"))
	assert.Same(t, res.Occupancy, rep.Occupancy)
}

func TestWriteRecordsCSV(t *testing.T) {
	res := testResult(t, 20)

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, res.Records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 21)
	assert.Equal(t, "customer", rows[0][0])
	assert.Len(t, rows[0], 9)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "0", rows[1][1], "first interarrival is synthetic zero")
}

func TestWriteSummaryCSV(t *testing.T) {
	m, err := analytic.ResolveRates(2, 5, 1, models.Unbounded)
	require.NoError(t, err)
	measures := analytic.Measure(m)
	stats := models.AggregateStats{MeanWaitingTime: 0.5, MeanTimeInSystem: 1.5}

	rows := []SummaryRow{
		{Name: "ok", Params: m.Params(), Measures: &measures, Stats: &stats},
		{Name: "broken", Params: models.NewQueueParameters(5, 5), Err: errors.New("unstable")},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ok", "2", "5", "1", "inf", "M/M/1"}, records[1][:6])
	assert.Equal(t, "0.4", records[1][10])
	assert.Equal(t, "1.5", records[1][13])
	assert.Equal(t, "", records[1][14])
	assert.Equal(t, "unstable", records[2][14])
	assert.Equal(t, "", records[2][5])
}

func TestComparisonText(t *testing.T) {
	got := ComparisonText(metrics.Comparison{
		Variant:   "M/M/1",
		Customers: 100,
		Measures: []metrics.MeasureComparison{
			{Name: "L", Analytic: 0.6667, Simulated: 0.65, RelativeError: 0.025},
		},
	})
	assert.Contains(t, got, "Model: M/M/1, customers: 100")
	assert.Contains(t, got, "2.50%")
}

func TestOccupancyChart(t *testing.T) {
	res := testResult(t, 30)

	t.Run("svg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OccupancyChart(&buf, res.Occupancy, FormatSVG))
		assert.Contains(t, buf.String(), "<svg")
	})
	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OccupancyChart(&buf, res.Occupancy, ""))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	})
	t.Run("unsupported format", func(t *testing.T) {
		assert.Error(t, OccupancyChart(&bytes.Buffer{}, res.Occupancy, "gif"))
	})
	t.Run("empty series", func(t *testing.T) {
		assert.Error(t, OccupancyChart(&bytes.Buffer{}, simulation.NewSeries(nil), FormatSVG))
	})

	assert.Equal(t, "image/svg+xml", ChartContentType("SVG"))
	assert.Equal(t, "image/png", ChartContentType("png"))
}
