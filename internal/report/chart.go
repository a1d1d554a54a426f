package report

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
)

// Chart formats accepted by OccupancyChart
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ChartContentType maps a chart format to its MIME type.
func ChartContentType(format string) string {
	if strings.ToLower(format) == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// OccupancyChart draws the number of customers in the system over time as a
// post-step line and writes it to w as PNG or SVG.
func OccupancyChart(w io.Writer, s *simulation.Series, format string) error {
	format = strings.ToLower(format)
	if format == "" {
		format = FormatPNG
	}
	if format != FormatPNG && format != FormatSVG {
		return fmt.Errorf("unsupported chart format %q", format)
	}
	if s == nil || s.Len() == 0 {
		return fmt.Errorf("occupancy series is empty")
	}

	xys := make(plotter.XYs, 0, s.Len())
	for p := range s.All() {
		xys = append(xys, plotter.XY{X: p.Time, Y: float64(p.Count)})
	}

	p := plot.New()
	p.Title.Text = "Customer Count Over Time"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Number of Customers in System"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("building occupancy line: %w", err)
	}
	line.StepStyle = plotter.PostStep
	line.Width = vg.Points(1)
	p.Add(line)

	wt, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
