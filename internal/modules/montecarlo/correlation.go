package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// eigenvalueFloor regularizes borderline matrices in the spectral fallback.
// Empirically estimated correlation matrices can carry tiny negative
// eigenvalues from floating-point noise; those are clipped up to this floor.
const eigenvalueFloor = 1e-8

// correlationTransform is the linear map L with L*L^T equal to the target
// correlation matrix. Multiplying a vector of independent standard normal
// draws by L yields draws with the target correlation structure.
type correlationTransform struct {
	l        *mat.Dense
	n        int
	identity bool // Fast path: no mixing needed
	spectral bool // True when the eigenvalue fallback was used
}

// newCorrelationTransform derives the transform for a correlation matrix.
// Cholesky decomposition is attempted first; if the matrix is only
// approximately positive semi-definite the spectral fallback clips its
// eigenvalues at a small positive floor and reconstructs
// L = V * sqrt(diag(lambda)). The fallback never fails.
func newCorrelationTransform(corr *mat.SymDense) *correlationTransform {
	n := corr.SymmetricDim()

	if isIdentity(corr) {
		return &correlationTransform{n: n, identity: true}
	}

	var chol mat.Cholesky
	if chol.Factorize(corr) {
		var lower mat.TriDense
		chol.LTo(&lower)
		l := mat.NewDense(n, n, nil)
		l.Copy(&lower)
		return &correlationTransform{l: l, n: n}
	}

	// Spectral fallback for matrices at the PSD boundary.
	var eig mat.EigenSym
	eig.Factorize(corr, true)

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	l := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := values[j]
			if v < eigenvalueFloor {
				v = eigenvalueFloor
			}
			l.Set(i, j, vectors.At(i, j)*math.Sqrt(v))
		}
	}

	return &correlationTransform{l: l, n: n, spectral: true}
}

// Apply mixes one cross-asset vector of independent draws in place:
// z <- L*z. Scratch must have length n and is reused across calls.
func (t *correlationTransform) Apply(z, scratch []float64) {
	if t.identity {
		return
	}
	for i := 0; i < t.n; i++ {
		var sum float64
		for k := 0; k < t.n; k++ {
			sum += t.l.At(i, k) * z[k]
		}
		scratch[i] = sum
	}
	copy(z, scratch)
}

func isIdentity(corr *mat.SymDense) bool {
	n := corr.SymmetricDim()
	for i := 0; i < n; i++ {
		if corr.At(i, i) != 1 {
			return false
		}
		for j := i + 1; j < n; j++ {
			if corr.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}
