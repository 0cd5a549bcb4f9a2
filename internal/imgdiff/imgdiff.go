// Package imgdiff compares rendered room images pixel by pixel.
package imgdiff

import (
	"errors"
	"fmt"

	"github.com/blkerby/smartdiff/internal/room"
	"github.com/blkerby/smartdiff/internal/snes"
)

var white = snes.Color{255, 255, 255}

// ErrShapeMismatch indicates two images of unequal dimensions, typically
// because the room's width or height changed between the two revisions.
var ErrShapeMismatch = errors.New("image dimensions differ")

// Diff compares candidate against baseline. Pixels whose RGB values
// differ come out white and opaque. Matching pixels that the baseline
// painted come out as the baseline color darkened by coefficient, with
// each channel truncated toward zero. Pixels the baseline never painted
// stay transparent. The rule is keyed off the baseline's transparency
// only: regions untouched in the baseline rendering stay invisible even
// if the candidate painted them with the same color.
func Diff(baseline, candidate *room.Image, coefficient float64) (*room.Image, error) {
	if err := sameShape(baseline, candidate); err != nil {
		return nil, err
	}
	out := room.NewImage(baseline.Width, baseline.Height)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			p1 := baseline.At(x, y)
			p2 := candidate.At(x, y)
			switch {
			case p1 != p2:
				out.Set(x, y, white)
			case baseline.Opaque(x, y):
				out.Set(x, y, snes.Color{
					uint8(float64(p1[0]) * coefficient),
					uint8(float64(p1[1]) * coefficient),
					uint8(float64(p1[2]) * coefficient),
				})
			}
		}
	}
	return out, nil
}

// DiffAll diffs two image lists pairwise. Lists of unequal length are
// diffed up to the shorter one.
func DiffAll(baseline, candidate []*room.Image, coefficient float64) ([]*room.Image, error) {
	n := len(baseline)
	if len(candidate) < n {
		n = len(candidate)
	}
	out := make([]*room.Image, 0, n)
	for i := 0; i < n; i++ {
		diff, err := Diff(baseline[i], candidate[i], coefficient)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out = append(out, diff)
	}
	return out, nil
}

// Count reports how many pixel positions have differing RGB values
// between the two images.
func Count(baseline, candidate *room.Image) (int, error) {
	if err := sameShape(baseline, candidate); err != nil {
		return 0, err
	}
	count := 0
	for y := 0; y < baseline.Height; y++ {
		for x := 0; x < baseline.Width; x++ {
			if baseline.At(x, y) != candidate.At(x, y) {
				count++
			}
		}
	}
	return count, nil
}

func sameShape(baseline, candidate *room.Image) error {
	if baseline.Width != candidate.Width || baseline.Height != candidate.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch,
			baseline.Width, baseline.Height, candidate.Width, candidate.Height)
	}
	return nil
}
