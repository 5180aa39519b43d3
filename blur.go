package fontstash

import "math"

// Fixed-point precision of the blur filter coefficient and accumulator.
const (
	blurAPrec = 16
	blurZPrec = 7
)

// maxBlur is the largest blur radius a glyph may request.
const maxBlur = 20

// blur approximates a Gaussian of the given radius over a w×h window of
// dst with two passes of a recursive exponential filter in each direction.
// The passes run on a fixed-point scratch buffer and dst is written once at
// the end. The outermost texels of the window are forced to zero.
func blur(dst []byte, w, h, stride, radius int) {
	if radius < 1 || w < 2 || h < 2 {
		return
	}
	// sigma = radius/sqrt(3)
	sigma := float32(radius) * 0.57735
	alpha := int(float32(1<<blurAPrec) * (1 - float32(math.Exp(-2.3/float64(sigma+1)))))

	buf := make([]int, w*h)
	for y := range h {
		for x, v := range dst[y*stride : y*stride+w] {
			buf[y*w+x] = int(v) << blurZPrec
		}
	}
	blurRows(buf, w, h, alpha)
	blurCols(buf, w, h, alpha)
	blurRows(buf, w, h, alpha)
	blurCols(buf, w, h, alpha)

	// Round to bytes, carrying the rounding error along each row so the
	// coverage sum survives the many small texels of a wide blur.
	const half = 1 << (blurZPrec - 1)
	for y := range h {
		row := dst[y*stride : y*stride+w]
		e := 0
		for x := range w {
			v := buf[y*w+x] + e
			q := min(max((v+half)>>blurZPrec, 0), 255)
			e = v - q<<blurZPrec
			row[x] = uint8(q)
		}
	}
}

// blurStep moves the accumulator z towards v, rounding to nearest.
func blurStep(z, v, alpha int) int {
	return z + (alpha*(v-z)+1<<(blurAPrec-1))>>blurAPrec
}

// blurCols filters every row along x.
func blurCols(buf []int, w, h, alpha int) {
	for y := range h {
		row := buf[y*w : y*w+w]
		z := 0
		for x := 1; x < w; x++ {
			z = blurStep(z, row[x], alpha)
			row[x] = z
		}
		row[w-1] = 0
		z = 0
		for x := w - 2; x >= 0; x-- {
			z = blurStep(z, row[x], alpha)
			row[x] = z
		}
		row[0] = 0
	}
}

// blurRows filters every column along y.
func blurRows(buf []int, w, h, alpha int) {
	for x := range w {
		z := 0
		for y := w; y < h*w; y += w {
			z = blurStep(z, buf[x+y], alpha)
			buf[x+y] = z
		}
		buf[x+(h-1)*w] = 0
		z = 0
		for y := (h - 2) * w; y >= 0; y -= w {
			z = blurStep(z, buf[x+y], alpha)
			buf[x+y] = z
		}
		buf[x] = 0
	}
}
