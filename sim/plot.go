package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot creates new plot of the simulation from the three data sources:
// model:   true values
// measure: measurement values
// filter:  filter values
// Each data source is a matrix whose first column holds the time step and second column the value.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied data matrices is nil
// * either of the supplied data matrices does not have at least 2 columns
// * gonum plot fails to be created
func New2DPlot(model, measure, filter *mat.Dense) (*plot.Plot, error) {
	if model == nil || measure == nil || filter == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	_, cmd := model.Dims()
	_, cms := measure.Dims()
	_, cmf := filter.Dims()

	if cmd < 2 || cms < 2 || cmf < 2 {
		return nil, fmt.Errorf("invalid data dimensions")
	}

	p := plot.New()

	p.Title.Text = "Kalman Filter State Estimation"
	p.X.Label.Text = "Time Step"
	p.Y.Label.Text = "State Value"

	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = true

	p.Legend = legend
	p.Add(plotter.NewGrid())

	// Make a dashed line plotter for model data
	modelLine, err := plotter.NewLine(makePoints(model))
	if err != nil {
		return nil, err
	}
	modelLine.LineStyle.Color = color.RGBA{G: 128, A: 255}
	modelLine.LineStyle.Dashes = plotutil.Dashes(1)
	modelLine.LineStyle.Width = vg.Points(1.5)

	p.Add(modelLine)
	p.Legend.Add("true state", modelLine)

	// Make a scatter plotter for measurement data
	measScatter, err := plotter.NewScatter(makePoints(measure))
	if err != nil {
		return nil, err
	}
	measScatter.GlyphStyle.Color = color.RGBA{R: 255, A: 128}
	measScatter.Shape = draw.CircleGlyph{}
	measScatter.GlyphStyle.Radius = vg.Points(1.5)

	p.Add(measScatter)
	p.Legend.Add("noisy measurements", measScatter)

	// Make a line plotter for filter data
	filterLine, err := plotter.NewLine(makePoints(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to create filter line: %v", err)
	}
	filterLine.LineStyle.Color = plotutil.Color(2)
	filterLine.LineStyle.Width = vg.Points(1.5)

	p.Add(filterLine)
	p.Legend.Add("kalman filter estimate", filterLine)

	return p, nil
}

// SavePlot saves plot p to file path; the image format follows the file extension.
func SavePlot(p *plot.Plot, path string) error {
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %v", path, err)
	}

	return nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
