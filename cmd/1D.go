/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/elasticlf4/InputParameters"
	"github.com/notargets/elasticlf4/LF4"
	"github.com/notargets/elasticlf4/model_problems/Elastic1D"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One Dimensional Elastic Wave Solutions",
	Long: `
Executes the LF4 leap-frog stepper on a nodal Discontinuous Galerkin discretization
of the 1D elastic wave equation for a set of model problems,

elasticlf4 1D --case explosive --ascii --outputInterval 250`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m1d := &Model1D{Out: os.Stdout}
		if m1d.Input, err = loadInput(cmd); err != nil {
			return
		}
		m1d.Graph = viper.GetBool("graph")
		m1d.ASCII = viper.GetBool("ascii")
		m1d.Delay = time.Duration(viper.GetInt("delay")) * time.Millisecond
		m1d.OutputDir = viper.GetString("output")
		m1d.Study = viper.GetBool("study")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return withCounters(viper.GetBool("perf"), func() error {
			return Run1D(ctx, m1d)
		})
	},
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	var (
		K         = 0 // Number of elements
		N         = 0 // Polynomial degree
		CFL       = 0.0
		DT        = 0.0
		FinalTime = 0.0
	)
	OneDCmd.Flags().StringP("case", "c", "eigenmode", "Case to run: pulse, explosive or eigenmode")
	OneDCmd.Flags().IntP("k", "k", K, "Number of elements in model, 0 uses the case default")
	OneDCmd.Flags().IntP("n", "n", N, "polynomial degree, 0 uses the case default")
	OneDCmd.Flags().Float64("CFL", CFL, "CFL - increase for speedup, decrease for stability")
	OneDCmd.Flags().Float64("dt", DT, "fixed timestep, takes precedence over CFL")
	OneDCmd.Flags().Float64("finalTime", FinalTime, "FinalTime - the target end time for the sim")
	OneDCmd.Flags().String("mass", "", "mass matrix: consistent or lumped")
	OneDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters, overlaid on the case defaults")
	OneDCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	OneDCmd.Flags().Bool("ascii", false, "plot velocity and stress in the terminal")
	OneDCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	OneDCmd.Flags().StringP("output", "o", "", "directory for CSV snapshots, named from OutputPrefix")
	OneDCmd.Flags().Int("outputInterval", 0, "steps between outputs, 0 uses the input file value")
	OneDCmd.Flags().Bool("study", false, "run an eigenmode convergence study from K to 8K and print CSV")
	for _, name := range []string{"case", "k", "n", "CFL", "dt", "finalTime", "mass", "graph", "ascii",
		"delay", "output", "outputInterval", "study"} {
		_ = viper.BindPFlag(name, OneDCmd.Flags().Lookup(name))
	}
}

type Model1D struct {
	Input     *InputParameters.InputParametersElastic
	Graph     bool
	ASCII     bool
	Delay     time.Duration
	OutputDir string
	Study     bool
	Out       io.Writer
}

// loadInput starts from the case defaults, overlays the input file, then any flags set
func loadInput(cmd *cobra.Command) (ip *InputParameters.InputParametersElastic, err error) {
	var (
		data     []byte
		caseName = viper.GetString("case")
	)
	if icFile, _ := cmd.Flags().GetString("inputConditionsFile"); icFile != "" {
		if data, err = os.ReadFile(icFile); err != nil {
			return
		}
		var fileCase InputParameters.InputParametersElastic
		if err = fileCase.Parse(data); err != nil {
			return
		}
		if fileCase.Case != "" && !cmd.Flags().Changed("case") {
			caseName = fileCase.Case
		}
	}
	if ip, err = InputParameters.Defaults(caseName); err != nil {
		return
	}
	if data != nil {
		if err = ip.Parse(data); err != nil {
			return
		}
		ip.Case = caseName
	}
	if n := viper.GetInt("n"); n > 0 {
		ip.PolynomialOrder = n
	}
	if k := viper.GetInt("k"); k > 0 {
		ip.Elements = k
	}
	if cfl := viper.GetFloat64("CFL"); cfl > 0 {
		ip.CFL, ip.DT = cfl, 0
	}
	if dt := viper.GetFloat64("dt"); dt > 0 {
		ip.DT = dt
	}
	if ft := viper.GetFloat64("finalTime"); ft > 0 {
		ip.FinalTime = ft
	}
	if mass := viper.GetString("mass"); mass != "" {
		ip.MassType = mass
	}
	if oi := viper.GetInt("outputInterval"); oi > 0 {
		ip.OutputInterval = oi
	}
	err = ip.Validate()
	return
}

func Run1D(ctx context.Context, m1d *Model1D) (err error) {
	ip := m1d.Input
	ip.Print()
	if m1d.Study {
		return runStudy(ctx, m1d)
	}
	var (
		cs      Elastic1D.Case
		c       *Elastic1D.Elastic
		st      *LF4.Stepper
		writers Elastic1D.MultiWriter
	)
	if cs, err = Elastic1D.CaseFromInput(ip); err != nil {
		return
	}
	if c, err = cs.Discretize(); err != nil {
		return
	}
	if m1d.OutputDir != "" {
		if err = os.MkdirAll(m1d.OutputDir, 0755); err != nil {
			return
		}
		var f *os.File
		if f, err = os.Create(filepath.Join(m1d.OutputDir, ip.OutputPrefix+".csv")); err != nil {
			return
		}
		defer f.Close()
		writers = append(writers, Elastic1D.NewCSVWriter(c, f))
	}
	if m1d.ASCII {
		writers = append(writers, Elastic1D.ASCIIWriter{Out: m1d.Out, Width: 100, Height: 15})
	}
	if m1d.Graph {
		writers = append(writers, Elastic1D.NewChartWriter(c, m1d.Delay))
	}
	opts := []LF4.Option{}
	if len(writers) != 0 {
		interval := ip.OutputInterval
		if interval < 1 {
			interval = 1
		}
		opts = append(opts, LF4.WithWriter(writers, interval))
	}
	if st, err = cs.NewStepper(c, opts...); err != nil {
		return
	}
	return Elastic1D.Run(ctx, c, st, cs.FinalTime)
}

// runStudy doubles the element count three times and writes title,order,K,errU,errS rows
func runStudy(ctx context.Context, m1d *Model1D) (err error) {
	var (
		ip      = m1d.Input
		kind    LF4.MassKind
		results []Elastic1D.ConvergenceResult
	)
	if kind, err = LF4.ParseMassKind(ip.MassType); err != nil {
		return
	}
	Ks := []int{ip.Elements, 2 * ip.Elements, 4 * ip.Elements, 8 * ip.Elements}
	if results, err = Elastic1D.ConvergenceStudy(ctx, ip.PolynomialOrder, Ks, kind); err != nil {
		return
	}
	Elastic1D.PrintConvergence(results)
	w := csv.NewWriter(m1d.Out)
	fm := func(v float64) string { return strconv.FormatFloat(v, 'e', 8, 64) }
	title := fmt.Sprintf("eigenmode-%s", kind)
	if err = w.Write([]string{"title", "order", "K", "errU", "errS"}); err != nil {
		return
	}
	for _, r := range results {
		if err = w.Write([]string{title, strconv.Itoa(r.N), strconv.Itoa(r.K), fm(r.ErrU), fm(r.ErrS)}); err != nil {
			return
		}
	}
	w.Flush()
	return w.Error()
}
