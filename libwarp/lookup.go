package libwarp

import (
	"fmt"
	"image"
	"image/color"

	"git.terah.dev/imterah/gostereo/libstereo"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// Lookup holds the precomputed source coordinates of every output texel.
type Lookup struct {
	Width, Height int
	Chromatic     bool

	samples []Sample
}

// NewLookup evaluates the warp of both eyes at width×height output texels.
func NewLookup(width, height int, left, right libstereo.WarpParams, chromatic bool) (*Lookup, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("lookup resolution %dx%d is not positive", width, height)
	}

	lookup := &Lookup{
		Width:     width,
		Height:    height,
		Chromatic: chromatic,
		samples:   make([]Sample, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tc := mgl32.Vec2{(float32(x) + 0.5) / float32(width), (float32(y) + 0.5) / float32(height)}
			params := left

			if tc.X() >= 0.5 {
				params = right
			}

			lookup.samples[y*width+x] = Warp(params, tc, chromatic)
		}
	}

	logger.Debugf("Built %dx%d warp lookup (chromatic: %t)", width, height, chromatic)

	return lookup, nil
}

// At returns the sample of output texel (x, y).
func (lookup *Lookup) At(x, y int) Sample {
	return lookup.samples[y*lookup.Width+x]
}

// Apply warps a side-by-side image. The result has the lookup resolution.
func (lookup *Lookup) Apply(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	source := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(source, source.Bounds(), src, bounds.Min, draw.Src)

	out := image.NewRGBA(image.Rect(0, 0, lookup.Width, lookup.Height))

	for y := 0; y < lookup.Height; y++ {
		for x := 0; x < lookup.Width; x++ {
			sample := lookup.At(x, y)

			if !sample.Inside {
				out.SetRGBA(x, y, color.RGBA{A: 0xFF})
				continue
			}

			red := bilinear(source, sample.Red)
			green := red

			if sample.Green != sample.Red {
				green = bilinear(source, sample.Green)
			}

			blue := green

			if sample.Blue != sample.Green {
				blue = bilinear(source, sample.Blue)
			}

			out.SetRGBA(x, y, color.RGBA{
				R: toByte(red[0]),
				G: toByte(green[1]),
				B: toByte(blue[2]),
				A: toByte(green[3]),
			})
		}
	}

	return out
}

// bilinear samples img at a texture coordinate with clamp to edge addressing.
func bilinear(img *image.RGBA, tc mgl32.Vec2) [4]float32 {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	fx := tc.X()*float32(w) - 0.5
	fy := tc.Y()*float32(h) - 0.5

	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	ax := fx - float32(x0)
	ay := fy - float32(y0)

	var result [4]float32

	for _, tap := range [4]struct {
		dx, dy int
		weight float32
	}{
		{0, 0, (1 - ax) * (1 - ay)},
		{1, 0, ax * (1 - ay)},
		{0, 1, (1 - ax) * ay},
		{1, 1, ax * ay},
	} {
		if tap.weight == 0 {
			continue
		}

		px := clampInt(x0+tap.dx, 0, w-1)
		py := clampInt(y0+tap.dy, 0, h-1)
		c := img.RGBAAt(px, py)

		result[0] += tap.weight * float32(c.R)
		result[1] += tap.weight * float32(c.G)
		result[2] += tap.weight * float32(c.B)
		result[3] += tap.weight * float32(c.A)
	}

	return result
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func toByte(v float32) uint8 {
	return uint8(mgl32.Clamp(math32.Round(v), 0, 255))
}
