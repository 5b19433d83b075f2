package InputParameters

import (
	"fmt"
	"math"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/elasticlf4/LF4"
)

// Parameters obtained from the YAML input file
type InputParametersElastic struct {
	Title           string           `yaml:"Title"`
	Case            string           `yaml:"Case"`
	PolynomialOrder int              `yaml:"PolynomialOrder"`
	Elements        int              `yaml:"Elements"`
	XMin            float64          `yaml:"XMin"`
	XMax            float64          `yaml:"XMax"`
	Density         float64          `yaml:"Density"`
	Lambda          float64          `yaml:"Lambda"`
	Mu              float64          `yaml:"Mu"`
	DT              float64          `yaml:"DT"`
	CFL             float64          `yaml:"CFL"`
	FinalTime       float64          `yaml:"FinalTime"`
	MassType        string           `yaml:"MassType"`
	Absorption      AbsorptionParams `yaml:"Absorption"`
	Source          SourceParams     `yaml:"Source"`
	OutputInterval  int              `yaml:"OutputInterval"`
	OutputPrefix    string           `yaml:"OutputPrefix"`
}

// AbsorptionParams describes sponge layers of Width at both ends, zero Strength disables them
type AbsorptionParams struct {
	Width    float64 `yaml:"Width"`
	Strength float64 `yaml:"Strength"`
}

// SourceParams is a box of Width centered at X driven by a Ricker wavelet, zero A disables it
type SourceParams struct {
	X     float64 `yaml:"X"`
	Width float64 `yaml:"Width"`
	A     float64 `yaml:"A"`
	T0    float64 `yaml:"T0"`
}

var caseNames = []string{"pulse", "explosive", "eigenmode"}

// Defaults returns the built in parameters of a named case
func Defaults(caseName string) (ip *InputParametersElastic, err error) {
	switch strings.ToLower(caseName) {
	case "pulse":
		ip = &InputParametersElastic{
			Title: "Gaussian pulse", Case: "pulse",
			PolynomialOrder: 1, Elements: 400, XMin: 0, XMax: 4,
			Density: 1, Lambda: 0.5, Mu: 0.25,
			DT: 0.0025, FinalTime: 2,
			Absorption: AbsorptionParams{Width: 0.5, Strength: 100},
		}
	case "explosive", "explosivesource":
		ip = &InputParametersElastic{
			Title: "Explosive source", Case: "explosive",
			PolynomialOrder: 2, Elements: 120, XMin: 0, XMax: 300,
			Density: 1, Lambda: 3599.3664, Mu: 3600,
			DT: 0.001, FinalTime: 2.5,
			Absorption: AbsorptionParams{Width: 20, Strength: 1000},
			Source:     SourceParams{X: 45, Width: 1, A: 159.42, T0: 0.3},
		}
	case "eigenmode":
		ip = &InputParametersElastic{
			Title: "Standing wave", Case: "eigenmode",
			PolynomialOrder: 1, Elements: 16, XMin: 0, XMax: 1,
			Density: 1, Lambda: 0.5, Mu: 0.25,
			CFL: 0.2, FinalTime: 1,
		}
	default:
		err = fmt.Errorf("%w: unknown case %q, expected one of %v", LF4.ErrConfig, caseName, caseNames)
		return
	}
	ip.MassType = LF4.Consistent.String()
	ip.OutputInterval = 100
	ip.OutputPrefix = ip.Case
	return
}

// Parse overlays the YAML document on ip, keys missing from data keep their current values
func (ip *InputParametersElastic) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersElastic) Validate() (err error) {
	var (
		finite = func(vals ...float64) bool {
			for _, v := range vals {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return false
				}
			}
			return true
		}
		Lx = ip.XMax - ip.XMin
	)
	params := LF4.Parameters{Density: ip.Density, Lambda: ip.Lambda, Mu: ip.Mu}
	if err = params.Validate(); err != nil {
		return
	}
	if _, err = LF4.ParseMassKind(ip.MassType); err != nil {
		return
	}
	switch {
	case !contains(caseNames, strings.ToLower(ip.Case)):
		err = fmt.Errorf("unknown case %q, expected one of %v", ip.Case, caseNames)
	case ip.PolynomialOrder < 1:
		err = fmt.Errorf("PolynomialOrder must be at least 1, got %d", ip.PolynomialOrder)
	case ip.Elements < 1:
		err = fmt.Errorf("Elements must be at least 1, got %d", ip.Elements)
	case !finite(ip.XMin, ip.XMax, ip.DT, ip.CFL, ip.FinalTime) || !(Lx > 0):
		err = fmt.Errorf("domain [%v,%v] and times must be finite with XMax > XMin", ip.XMin, ip.XMax)
	case !(ip.FinalTime > 0):
		err = fmt.Errorf("FinalTime must be positive, got %v", ip.FinalTime)
	case ip.DT < 0 || ip.CFL < 0 || (ip.DT == 0 && ip.CFL == 0):
		err = fmt.Errorf("one of DT or CFL must be positive, got DT = %v, CFL = %v", ip.DT, ip.CFL)
	case !finite(ip.Absorption.Width, ip.Absorption.Strength) ||
		ip.Absorption.Width < 0 || ip.Absorption.Strength < 0 || 2*ip.Absorption.Width >= Lx:
		err = fmt.Errorf("absorption layers %+v must be non-negative and fit in the domain", ip.Absorption)
	case !finite(ip.Source.X, ip.Source.Width, ip.Source.A, ip.Source.T0) || ip.Source.A < 0:
		err = fmt.Errorf("source %+v must be finite with A >= 0", ip.Source)
	case ip.Source.A > 0 && !(ip.Source.Width > 0):
		err = fmt.Errorf("source width must be positive, got %v", ip.Source.Width)
	case ip.OutputInterval < 0:
		err = fmt.Errorf("OutputInterval must not be negative, got %d", ip.OutputInterval)
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", LF4.ErrConfig, err)
	}
	return
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

func (ip *InputParametersElastic) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Case\n", ip.Case)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Elements\n", ip.Elements)
	fmt.Printf("[%g,%g]\t\t= Domain\n", ip.XMin, ip.XMax)
	fmt.Printf("%8.5f\t\t= Density\n", ip.Density)
	fmt.Printf("%8.5f\t\t= Lambda\n", ip.Lambda)
	fmt.Printf("%8.5f\t\t= Mu\n", ip.Mu)
	fmt.Printf("%8.5f\t\t= DT\n", ip.DT)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t= Mass Type\n", ip.MassType)
	if ip.Absorption.Strength > 0 {
		fmt.Printf("Absorption = %+v\n", ip.Absorption)
	}
	if ip.Source.A > 0 {
		fmt.Printf("Source = %+v\n", ip.Source)
	}
}
