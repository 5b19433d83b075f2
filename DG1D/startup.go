package DG1D

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"github.com/notargets/elasticlf4/utils"
)

func (el *Elements1D) Startup1D() {
	var (
		err error
		N   = el.Np - 1
	)
	el.R = JacobiGL(0, 0, N)
	el.V = Vandermonde1D(N, el.R)
	if el.Vinv, err = el.V.Inverse(); err != nil {
		fmt.Println(err)
		panic("error inverting V")
	}
	Vr := GradVandermonde1D(el.R, N)

	el.Dr = Vr.Mul(el.Vinv)

	el.LIFT = Lift1D(el.V, el.Np, el.NFaces, el.Nfp)

	el.NX = Normals1D(el.NFaces, el.Nfp, el.K)

	// x = ones(Np)*VX(va) + 0.5*(r+1.)*sT(vc);
	el.X = utils.NewMatrix(el.Np, el.K)
	for k := 0; k < el.K; k++ {
		va, vb := int(el.EToV.At(k, 0)), int(el.EToV.At(k, 1))
		xa, xb := el.VX.AtVec(va), el.VX.AtVec(vb)
		for i, r := range el.R.DataP {
			el.X.Set(i, k, xa+0.5*(r+1.)*(xb-xa))
		}
	}

	el.J, el.Rx = GeometricFactors1D(el.Dr, el.X)
	if el.J.Min() <= 0 {
		panic("element with non-positive jacobian, vertices must be ordered left to right")
	}

	fmask1 := el.R.Copy().AddScalar(1).Find(utils.Less, utils.NODETOL, true).ToIndex()
	fmask2 := el.R.Copy().AddScalar(-1).Find(utils.Less, utils.NODETOL, true).ToIndex()
	el.FMask = append(fmask1, fmask2...)
	el.FScale = el.J.SliceRows(el.FMask).POW(-1)
	el.Connect1D()
	el.BuildMaps1D()
	return
}

// Connect1D finds the neighbor element and face across each face using the
// face to vertex incidence: faces sharing a vertex show up as off diagonal
// entries of FToV * FToV^T
func (el *Elements1D) Connect1D() {
	var (
		NFaces     = el.NFaces
		K          = el.K
		Nv         = el.VX.Len()
		TotalFaces = NFaces * K
	)
	SpFToV_Tmp := sparse.NewDOK(TotalFaces, Nv)
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			SpFToV_Tmp.Set(k*NFaces+face, int(el.EToV.At(k, face)), 1)
		}
	}
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToV := SpFToV_Tmp.ToCSR()
	SpFToF.Mul(SpFToV, SpFToV.T())

	// Faces default to connecting to themselves
	el.EToE = utils.NewMatrix(K, NFaces)
	el.EToF = utils.NewMatrix(K, NFaces)
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			el.EToE.Set(k, face, float64(k))
			el.EToF.Set(k, face, float64(face))
		}
	}
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i == j || v != 1 {
			return
		}
		element1, face1 := i/NFaces, int(math.Mod(float64(i), float64(NFaces)))
		element2, face2 := j/NFaces, int(math.Mod(float64(j), float64(NFaces)))
		el.EToE.Set(element1, face1, float64(element2))
		el.EToF.Set(element1, face1, float64(face2))
	})
	return
}

func (el *Elements1D) BuildMaps1D() {
	var (
		K  = el.K
		NF = el.Nfp * el.NFaces
	)
	// find index of face nodes with respect to volume node ordering
	el.VmapM = utils.NewIndex(NF * K)
	for f := 0; f < NF; f++ {
		for k := 0; k < K; k++ {
			el.VmapM[f*K+k] = el.FMask[f]*K + k
		}
	}

	el.VmapP = utils.NewIndex(NF * K)
	for k1 := 0; k1 < K; k1++ {
		for f1 := 0; f1 < el.NFaces; f1++ {
			k2 := int(el.EToE.At(k1, f1))
			f2 := int(el.EToF.At(k1, f1))
			vidM := el.VmapM[f1*K+k1]
			vidP := el.VmapM[f2*K+k2]
			v1 := int(el.EToV.At(k1, f1))
			v2 := int(el.EToV.At(k1, (f1+1)%el.NFaces))
			refd := math.Abs(el.VX.AtVec(v1) - el.VX.AtVec(v2))
			if D := math.Abs(el.X.DataP[vidM] - el.X.DataP[vidP]); D > utils.NODETOL*refd {
				panic(fmt.Errorf("face nodes do not coincide: element %d face %d, distance %g", k1, f1, D))
			}
			el.VmapP[f1*K+k1] = vidP
		}
	}

	// Create list of boundary nodes
	el.MapB = el.VmapP.FindVec(utils.Equal, el.VmapM)
	el.VmapB = el.VmapM.Subset(el.MapB)
	return
}
