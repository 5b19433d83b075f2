package LF4

import (
	"fmt"
	"math"
	"strings"

	"github.com/james-bowman/sparse"
	"github.com/notargets/elasticlf4/utils"
	"gonum.org/v1/gonum/mat"
)

type MassKind uint8

const (
	Consistent MassKind = iota
	Lumped
)

func (k MassKind) String() string {
	switch k {
	case Consistent:
		return "consistent"
	case Lumped:
		return "lumped"
	}
	return fmt.Sprintf("MassKind(%d)", uint8(k))
}

func ParseMassKind(label string) (k MassKind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "consistent", "":
		k = Consistent
	case "lumped":
		k = Lumped
	default:
		err = configError("unknown mass type %q, expected consistent or lumped", label)
	}
	return
}

// MassOperator applies the inverse of a block diagonal mass matrix to every component of a field
type MassOperator interface {
	Apply(in, out *Field) error
	Dims() (Np, K int)
	Kind() MassKind
}

// BlockMass is a block diagonal global mass matrix, one Np x Np block per element
type BlockMass struct {
	Np, K  int
	Blocks []utils.Matrix
}

func (bm BlockMass) validate(weight float64) (err error) {
	if bm.Np < 1 || bm.K < 1 {
		return configError("mass blocks need positive dimensions, got Np = %d, K = %d", bm.Np, bm.K)
	}
	if len(bm.Blocks) != bm.K {
		return configError("expected %d mass blocks, got %d", bm.K, len(bm.Blocks))
	}
	for k, B := range bm.Blocks {
		if B.IsEmpty() {
			return configError("mass block %d is empty", k)
		}
		if nr, nc := B.Dims(); nr != bm.Np || nc != bm.Np {
			return configError("mass block %d is %d x %d, expected %d x %d", k, nr, nc, bm.Np, bm.Np)
		}
		if ok, _ := utils.IsFinite(B.DataP); !ok {
			return configError("mass block %d has non-finite entries", k)
		}
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return configError("mass weight must be positive, got %v", weight)
	}
	return
}

func NewMassOperator(kind MassKind, bm BlockMass, weight float64) (MassOperator, error) {
	switch kind {
	case Consistent:
		return NewConsistentMass(bm, weight)
	case Lumped:
		return NewLumpedMass(bm, weight)
	}
	return nil, configError("unknown mass kind %v", kind)
}

// ConsistentMass holds the exact inverse of weight*M as a sparse block diagonal matrix.
// Global degrees of freedom are numbered element major, dof = k*Np + i.
type ConsistentMass struct {
	np, k   int
	inverse *sparse.CSR
}

func NewConsistentMass(bm BlockMass, weight float64) (cm *ConsistentMass, err error) {
	if err = bm.validate(weight); err != nil {
		return
	}
	var (
		Np, K    = bm.Np, bm.K
		inverses = make([]utils.Matrix, K)
		pm       = utils.NewPartitionMap(utils.DefaultParallelDegree(K), K)
		errs     = make([]error, pm.ParallelDegree)
	)
	pm.Run(func(bn, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			Binv, err := bm.Blocks[k].Inverse()
			if err != nil {
				errs[bn] = configError("mass block %d: %v", k, err)
				return
			}
			inverses[k] = Binv.Scale(1 / weight)
		}
	})
	for _, e := range errs {
		if e != nil {
			err = e
			return
		}
	}
	// Every block is dense, so each row holds exactly Np entries in ascending column order
	var (
		indptr = make([]int, Np*K+1)
		ind    = make([]int, Np*Np*K)
		data   = make([]float64, Np*Np*K)
		nz     int
	)
	for k := 0; k < K; k++ {
		for i := 0; i < Np; i++ {
			for j := 0; j < Np; j++ {
				ind[nz] = k*Np + j
				data[nz] = inverses[k].At(i, j)
				nz++
			}
			indptr[k*Np+i+1] = nz
		}
	}
	cm = &ConsistentMass{
		np:      Np,
		k:       K,
		inverse: sparse.NewCSR(Np*K, Np*K, indptr, ind, data),
	}
	return
}

func (cm *ConsistentMass) Dims() (Np, K int) { return cm.np, cm.k }

func (cm *ConsistentMass) Kind() MassKind { return Consistent }

// Inverse exposes the assembled sparse inverse mass matrix
func (cm *ConsistentMass) Inverse() mat.Matrix { return cm.inverse }

// Apply computes out = M^-1 in. out may alias in.
func (cm *ConsistentMass) Apply(in, out *Field) (err error) {
	if cm == nil || cm.inverse == nil {
		return configError("consistent mass operator used before it was built")
	}
	if err = checkApplyShape(cm.np, cm.k, in, out); err != nil {
		return
	}
	var (
		Np, K = cm.np, cm.k
		x     = make([]float64, Np*K)
		y     = make([]float64, Np*K)
	)
	for n := range in.Comp {
		src, dst := in.Comp[n].DataP, out.Comp[n].DataP
		// gather the Np x K component into element-major order, dof = k*Np + i
		for i := 0; i < Np; i++ {
			for k := 0; k < K; k++ {
				x[k*Np+i] = src[i*K+k]
			}
		}
		for i := range y {
			y[i] = 0
		}
		// MulVecTo accumulates into y
		cm.inverse.MulVecTo(y, false, x)
		for i := 0; i < Np; i++ {
			for k := 0; k < K; k++ {
				dst[i*K+k] = y[k*Np+i]
			}
		}
	}
	return
}

// LumpedMass replaces each block by the diagonal of its row sums
type LumpedMass struct {
	np, k   int
	invDiag utils.Matrix // Np x K
}

func NewLumpedMass(bm BlockMass, weight float64) (lm *LumpedMass, err error) {
	if err = bm.validate(weight); err != nil {
		return
	}
	lm = &LumpedMass{
		np:      bm.Np,
		k:       bm.K,
		invDiag: utils.NewMatrix(bm.Np, bm.K),
	}
	for k, B := range bm.Blocks {
		for i, rowSum := range B.SumRows().DataP {
			d := weight * rowSum
			if !(d > 0) {
				lm = nil
				err = configError("lumped mass row %d of element %d is not positive: %v", i, k, d)
				return
			}
			lm.invDiag.Set(i, k, 1/d)
		}
	}
	lm.invDiag.SetReadOnly("lumped inverse mass")
	return
}

func (lm *LumpedMass) Dims() (Np, K int) { return lm.np, lm.k }

func (lm *LumpedMass) Kind() MassKind { return Lumped }

// Diagonal returns a copy of the inverse lumped mass, Np x K
func (lm *LumpedMass) Diagonal() utils.Matrix { return lm.invDiag.Copy() }

// Apply computes out = M^-1 in. out may alias in.
func (lm *LumpedMass) Apply(in, out *Field) (err error) {
	if lm == nil || lm.invDiag.IsEmpty() {
		return configError("lumped mass operator used before it was built")
	}
	if err = checkApplyShape(lm.np, lm.k, in, out); err != nil {
		return
	}
	for n := range in.Comp {
		var (
			src, dst = in.Comp[n].DataP, out.Comp[n].DataP
		)
		for i, d := range lm.invDiag.DataP {
			dst[i] = d * src[i]
		}
	}
	return
}

func checkApplyShape(Np, K int, in, out *Field) error {
	if in == nil || out == nil {
		return configError("mass operator applied to a nil field")
	}
	if !in.SameShape(out) {
		return configError("mass operator input %s and output %s differ in shape", in.Name, out.Name)
	}
	if nc, np, k := in.Shape(); nc == 0 || np != Np || k != K {
		return configError("mass operator built for Np = %d, K = %d, applied to %s with Np = %d, K = %d",
			Np, K, in.Name, np, k)
	}
	return nil
}
