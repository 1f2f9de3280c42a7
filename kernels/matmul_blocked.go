package kernels

import "github.com/HamoodiM/TitanInfer/tensor"

// Tile sizes for the blocked matmul kernel, chosen per spec.md §4.2: MC/NC
// fit an L2-resident output tile, KC bounds the working set of the A/B
// panels streamed through it.
const (
	blockMC = 64
	blockNC = 64
	blockKC = 256
)

// MatMulBlocked computes the same (M,K)@(K,N) product as MatMul using
// three-level cache blocking and an 8-wide inner loop over the K
// dimension, with a scalar tail for K%8 != 0. Output storage is
// zero-initialized and tiles accumulate into it, so the summation order
// (and therefore the exact bit pattern) differs from MatMul's
// left-to-right reference order — callers compare the two within the
// tolerance documented in spec.md §8, never bit-exactly.
func MatMulBlocked(a, b *tensor.Tensor, output *tensor.Tensor) error {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		return invalidArg("matmul_blocked", "expected 2D tensors, got shapes %v and %v", []int(as), []int(bs))
	}
	m, k := as[0], as[1]
	kb, n := bs[0], bs[1]
	if k != kb {
		return invalidArg("matmul_blocked", "inner dimensions mismatch: %d != %d", k, kb)
	}

	output.EnsureShape(tensor.Shape{m, n})
	output.Zero()
	out := output.Data()
	ad, bd := a.Data(), b.Data()
	fused := HasAVX2FMA()

	var gather [8]float32

	for kk := 0; kk < k; kk += blockKC {
		kEnd := min(kk+blockKC, k)
		for ii := 0; ii < m; ii += blockMC {
			iEnd := min(ii+blockMC, m)
			for jj := 0; jj < n; jj += blockNC {
				jEnd := min(jj+blockNC, n)

				for i := ii; i < iEnd; i++ {
					aRow := ad[i*k : i*k+k]
					outRow := out[i*n : i*n+n]
					for j := jj; j < jEnd; j++ {
						var acc float32
						p := kk
						// 8-wide inner loop: load 8 contiguous A elements,
						// gather 8 B elements along its column (stride N,
						// not unit — hence the explicit scratch copy).
						for ; p+8 <= kEnd; p += 8 {
							aChunk := aRow[p : p+8]
							for g := 0; g < 8; g++ {
								gather[g] = bd[(p+g)*n+j]
							}
							if fused {
								for g := 0; g < 8; g++ {
									acc = fmaF32(aChunk[g], gather[g], acc)
								}
							} else {
								for g := 0; g < 8; g++ {
									acc += aChunk[g] * gather[g]
								}
							}
						}
						// Scalar tail for K not divisible by 8.
						for ; p < kEnd; p++ {
							acc += aRow[p] * bd[p*n+j]
						}
						outRow[j] += acc
					}
				}
			}
		}
	}
	return nil
}

// fmaF32 computes a*b+c as a single fused operation when the hardware
// supports FMA3, rounding once instead of twice. math.FMA operates on
// float64; we widen, fuse, and narrow back to float32 to get the
// single-rounding behavior without cgo/assembly.
func fmaF32(a, b, c float32) float32 {
	return float32(fusedMultiplyAdd(float64(a), float64(b), float64(c)))
}
