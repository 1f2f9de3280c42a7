package kernels

import "golang.org/x/sys/cpu"

// HasAVX2FMA reports whether the running CPU exposes both AVX2 and FMA3,
// the feature pair the blocked matmul kernel uses to decide
// between a fused multiply-add inner loop and a multiply-then-add one.
// Grounded on ajroetker-go-highway's internal/cpuinfo, which reports the
// same pair via golang.org/x/sys/cpu for its own dispatch diagnostics.
//
// This package has no cgo/assembly dependency: the teacher repo commits
// to "pure Go implementation (no CGO)" (backend/cpu/doc.go), so rather
// than hand-written AVX2 intrinsics, the "SIMD" tile kernel in matmul_blocked.go is
// unrolled-by-8 straight-line Go that the compiler can auto-vectorize,
// and HasAVX2FMA only decides which arithmetic order that code takes.
func HasAVX2FMA() bool {
	return cpu.X86.HasAVX2 && cpu.X86.HasFMA
}
