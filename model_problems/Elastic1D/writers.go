package Elastic1D

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/notargets/elasticlf4/LF4"
	"github.com/notargets/elasticlf4/utils"
)

// CSVWriter emits one row per node: step, time, x, velocity, stress
type CSVWriter struct {
	c       *Elastic
	w       *csv.Writer
	started bool
}

func NewCSVWriter(c *Elastic, w io.Writer) *CSVWriter {
	return &CSVWriter{c: c, w: csv.NewWriter(w)}
}

func (cw *CSVWriter) Write(step int, t float64, u, s *LF4.Field) (err error) {
	if !cw.started {
		if err = cw.w.Write([]string{"step", "time", "x", "u", "s"}); err != nil {
			return
		}
		cw.started = true
	}
	var (
		X  = cw.c.Coordinates()
		U  = Values(u)
		S  = Values(s)
		fm = func(v float64) string { return strconv.FormatFloat(v, 'g', 12, 64) }
	)
	for i, x := range X {
		if err = cw.w.Write([]string{strconv.Itoa(step), fm(t), fm(x), fm(U[i]), fm(S[i])}); err != nil {
			return
		}
	}
	cw.w.Flush()
	return cw.w.Error()
}

// ASCIIWriter draws velocity and stress as a terminal plot
type ASCIIWriter struct {
	Out           io.Writer
	Width, Height int
}

func (aw ASCIIWriter) Write(step int, t float64, u, s *LF4.Field) (err error) {
	graph := asciigraph.PlotMany([][]float64{Values(u), Values(s)},
		asciigraph.Width(aw.Width),
		asciigraph.Height(aw.Height),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("step %d, t = %8.4f, velocity (blue), stress (red)", step, t)),
	)
	_, err = fmt.Fprintln(aw.Out, graph)
	return
}

// ChartWriter plots to an OpenGL window. The chart is created on the first write, with
// a symmetric range of Scale times the largest initial value when no range is set.
type ChartWriter struct {
	c          *Elastic
	FMin, FMax float64
	Scale      float64
	delay      time.Duration
	chart      *utils.LineChart
}

func NewChartWriter(c *Elastic, delay time.Duration) *ChartWriter {
	return &ChartWriter{c: c, Scale: 1.2, delay: delay}
}

func (ch *ChartWriter) Write(step int, t float64, u, s *LF4.Field) (err error) {
	X := ch.c.Coordinates()
	if ch.chart == nil {
		if !(ch.FMax > ch.FMin) {
			fmax := math.Max(u.MaxAbs(), s.MaxAbs())
			if fmax == 0 {
				fmax = 1
			}
			ch.FMin, ch.FMax = -ch.Scale*fmax, ch.Scale*fmax
		}
		ch.chart = utils.NewLineChart(1920, 1280, X[0], X[len(X)-1], ch.FMin, ch.FMax)
	}
	if err = ch.chart.Plot(0, X, Values(u), -0.7, "Velocity"); err != nil {
		return
	}
	return ch.chart.Plot(ch.delay, X, Values(s), 0.7, "Stress")
}

// EnergyLog prints the discrete energy, which is conserved without absorption or sources
type EnergyLog struct {
	c   *Elastic
	Out io.Writer
}

func NewEnergyLog(c *Elastic, out io.Writer) EnergyLog { return EnergyLog{c: c, Out: out} }

func (el EnergyLog) Write(step int, t float64, u, s *LF4.Field) (err error) {
	_, err = fmt.Fprintf(el.Out, "step = %d, Time = %8.4f, Energy = %12.8e\n", step, t, el.c.Energy(u, s))
	return
}

// MultiWriter calls every writer and returns the first failure after trying them all
type MultiWriter []LF4.Writer

func (mw MultiWriter) Write(step int, t float64, u, s *LF4.Field) (err error) {
	for _, w := range mw {
		if werr := w.Write(step, t, u, s); werr != nil && err == nil {
			err = werr
		}
	}
	return
}
