package LF4

import (
	"fmt"
	"math"

	"github.com/notargets/elasticlf4/utils"
	"gonum.org/v1/gonum/floats"
)

type Rank uint8

const (
	VectorRank Rank = iota
	TensorRank
)

func (r Rank) String() string {
	switch r {
	case VectorRank:
		return "vector"
	case TensorRank:
		return "tensor"
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

// Field is a nodal vector or tensor field. Each component is an Np x K matrix,
// tensors store all Dim*Dim components.
type Field struct {
	Name string
	Rank Rank
	Dim  int
	Comp []utils.Matrix
}

func NewField(name string, rank Rank, dim, Np, K int) (f *Field) {
	var (
		nc = dim
	)
	if rank == TensorRank {
		nc = dim * dim
	}
	f = &Field{
		Name: name,
		Rank: rank,
		Dim:  dim,
		Comp: make([]utils.Matrix, nc),
	}
	for n := range f.Comp {
		f.Comp[n] = utils.NewMatrix(Np, K)
	}
	return
}

// NewFieldFrom wraps existing component data as a field
func NewFieldFrom(name string, rank Rank, dim int, comp ...utils.Matrix) (f *Field, err error) {
	var (
		nc = dim
	)
	if rank == TensorRank {
		nc = dim * dim
	}
	if dim < 1 || len(comp) != nc {
		err = configError("%s field of dimension %d needs %d components, got %d", rank, dim, nc, len(comp))
		return
	}
	Np, K := comp[0].Dims()
	for _, c := range comp[1:] {
		if nr, ncol := c.Dims(); nr != Np || ncol != K {
			err = configError("component shape mismatch in field %s", name)
			return
		}
	}
	f = &Field{Name: name, Rank: rank, Dim: dim, Comp: comp}
	return
}

// Shape returns the number of components and the nodal dimensions
func (f *Field) Shape() (nComp, Np, K int) {
	nComp = len(f.Comp)
	if nComp != 0 {
		Np, K = f.Comp[0].Dims()
	}
	return
}

func (f *Field) SameShape(g *Field) bool {
	if f == nil || g == nil || f.Rank != g.Rank || f.Dim != g.Dim {
		return false
	}
	nc1, np1, k1 := f.Shape()
	nc2, np2, k2 := g.Shape()
	return nc1 == nc2 && np1 == np2 && k1 == k2
}

func (f *Field) checkShape(fields ...*Field) error {
	for _, g := range fields {
		if !f.SameShape(g) {
			return configError("field shape mismatch between %s and %s", f.Name, fieldName(g))
		}
	}
	return nil
}

// Assign copies g's values into f
func (f *Field) Assign(g *Field) (err error) {
	if err = f.checkShape(g); err != nil {
		return
	}
	for n := range f.Comp {
		f.Comp[n].Assign(g.Comp[n])
	}
	return
}

func (f *Field) Zero() {
	for n := range f.Comp {
		f.Comp[n].SetAll(0)
	}
}

// Combine sets f = a + c1*b + c2*d
func (f *Field) Combine(a *Field, c1 float64, b *Field, c2 float64, d *Field) (err error) {
	if err = f.checkShape(a, b, d); err != nil {
		return
	}
	for n := range f.Comp {
		var (
			F, A, B, D = f.Comp[n].DataP, a.Comp[n].DataP, b.Comp[n].DataP, d.Comp[n].DataP
		)
		for i := range F {
			F[i] = A[i] + c1*B[i] + c2*D[i]
		}
	}
	return
}

// IsFinite returns false and the location of the first NaN or Inf
func (f *Field) IsFinite() (ok bool, comp, index int) {
	for n, c := range f.Comp {
		if ok, index = utils.IsFinite(c.DataP); !ok {
			return false, n, index
		}
	}
	return true, -1, -1
}

// Dot is the nodal (unweighted) inner product summed over components
func (f *Field) Dot(g *Field) (sum float64) {
	for n := range f.Comp {
		sum += floats.Dot(f.Comp[n].DataP, g.Comp[n].DataP)
	}
	return
}

func (f *Field) MaxAbs() (m float64) {
	for _, c := range f.Comp {
		for _, val := range c.DataP {
			m = math.Max(m, math.Abs(val))
		}
	}
	return
}

func (f *Field) Copy(name string) (g *Field) {
	g = &Field{
		Name: name,
		Rank: f.Rank,
		Dim:  f.Dim,
		Comp: make([]utils.Matrix, len(f.Comp)),
	}
	for n := range f.Comp {
		g.Comp[n] = f.Comp[n].Copy()
	}
	return
}

// Flatten concatenates the component data
func (f *Field) Flatten() (data []float64) {
	for _, c := range f.Comp {
		data = append(data, c.DataP...)
	}
	return
}

func fieldName(f *Field) string {
	if f == nil {
		return "<nil>"
	}
	return f.Name
}

// Slot indexes the five working buffers held per physical field
type Slot uint8

const (
	Old Slot = iota
	Half1
	Temp
	Half2
	New
	NumSlots
)

func (s Slot) String() string {
	if s < NumSlots {
		return [...]string{"Old", "Half1", "Temp", "Half2", "New"}[s]
	}
	return fmt.Sprintf("Slot(%d)", uint8(s))
}

type FieldKind uint8

const (
	Velocity FieldKind = iota
	Stress
)

func (k FieldKind) String() string {
	if k == Velocity {
		return "Velocity"
	}
	return "Stress"
}

// FieldSet holds the velocity and stress slots, named like VelocityHalf1
type FieldSet struct {
	Velocity [NumSlots]*Field
	Stress   [NumSlots]*Field
}

// NewFieldSet allocates all slots shaped like u0 and s0 and copies the initial data into the Old slots
func NewFieldSet(u0, s0 *Field) (fs *FieldSet) {
	fs = &FieldSet{}
	for slot := Old; slot < NumSlots; slot++ {
		fs.Velocity[slot] = u0.Copy(Velocity.String() + slot.String())
		fs.Stress[slot] = s0.Copy(Stress.String() + slot.String())
		if slot != Old {
			fs.Velocity[slot].Zero()
			fs.Stress[slot].Zero()
		}
	}
	return
}

func (fs *FieldSet) Get(kind FieldKind, slot Slot) *Field {
	if kind == Velocity {
		return fs.Velocity[slot]
	}
	return fs.Stress[slot]
}

// Swap copies the New slots into the Old slots, the buffers are never aliased
func (fs *FieldSet) Swap() (err error) {
	if err = fs.Velocity[Old].Assign(fs.Velocity[New]); err != nil {
		return
	}
	return fs.Stress[Old].Assign(fs.Stress[New])
}
