package analytic

import (
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// TextReport is the fixed-order "<name>: <value>" rendering of a solved model.
type TextReport string

// Text renders L, Lq, W, Wq and utilization, one per line.
func Text(m Model) TextReport {
	var b strings.Builder
	line := func(name string, v float64) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('\n')
	}
	line("L", m.L())
	line("Lq", m.Lq())
	line("W", m.W())
	line("Wq", m.Wq())
	line("Ru", m.Utilization())
	return TextReport(b.String())
}

// Solve resolves the queue and renders its text report. Pass models.Unbounded
// for an infinite buffer.
func Solve(lambda, mu float64, c int, k models.Capacity) (TextReport, error) {
	m, err := ResolveRates(lambda, mu, c, k)
	if err != nil {
		return "", err
	}
	return Text(m), nil
}
