// Package imop implements the Porter-Duff composition operators and the
// separable blend modes used when blitting one surface onto another.
//
// The image/draw package only provides Src and Over; this package covers
// the remaining operators so a game can mask, cut out and combine sprites.
package imop

import (
	"fmt"
	"image"
	"image/color"
)

// Op is a Porter-Duff composition operator.
type Op string

const (
	Clear   Op = "clear"
	Copy    Op = "copy"
	Dst     Op = "dst"
	SrcOver Op = "src_over"
	DstOver Op = "dst_over"
	SrcIn   Op = "src_in"
	DstIn   Op = "dst_in"
	SrcOut  Op = "src_out"
	DstOut  Op = "dst_out"
	SrcAtop Op = "src_atop"
	DstAtop Op = "dst_atop"
	Xor     Op = "xor"
)

// factors returns the fractions Fa and Fb of source and backdrop coverage
// kept by the operator, given the source and backdrop alpha.
func (o Op) factors(as, ab float64) (fa, fb float64, ok bool) {
	switch o {
	case Clear:
		return 0, 0, true
	case Copy:
		return 1, 0, true
	case Dst:
		return 0, 1, true
	case SrcOver:
		return 1, 1 - as, true
	case DstOver:
		return 1 - ab, 1, true
	case SrcIn:
		return ab, 0, true
	case DstIn:
		return 0, as, true
	case SrcOut:
		return 1 - ab, 0, true
	case DstOut:
		return 0, 1 - as, true
	case SrcAtop:
		return ab, 1 - as, true
	case DstAtop:
		return 1 - ab, as, true
	case Xor:
		return 1 - ab, 1 - as, true
	}
	return 0, 0, false
}

// ParseOp validates the name of a composition operator.
func ParseOp(name string) (Op, error) {
	op := Op(name)
	if _, _, ok := op.factors(0, 0); !ok {
		return "", fmt.Errorf("unsupported composite operation: %q", name)
	}
	return op, nil
}

// Composite draws src onto dst with its top-left corner at pt, combining
// every overlapping pixel with op after applying the blend mode.
func Composite(dst *image.RGBA, src image.Image, pt image.Point, op Op, mode Mode) error {
	if _, _, ok := op.factors(0, 0); !ok {
		return fmt.Errorf("unsupported composite operation: %q", op)
	}
	if !mode.valid() {
		return fmt.Errorf("unsupported blend mode: %q", mode)
	}

	sb := src.Bounds()
	r := image.Rectangle{Min: pt, Max: pt.Add(sb.Size())}.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := color.NRGBAModel.Convert(src.At(sb.Min.X+x-pt.X, sb.Min.Y+y-pt.Y)).(color.NRGBA)
			b := color.NRGBAModel.Convert(dst.At(x, y)).(color.NRGBA)
			dst.Set(x, y, mix(s, b, op, mode))
		}
	}
	return nil
}

func mix(s, b color.NRGBA, op Op, mode Mode) color.NRGBA {
	as, ab := unit(s.A), unit(b.A)
	fa, fb, _ := op.factors(as, ab)

	ao := as*fa + ab*fb
	if ao <= 0 {
		return color.NRGBA{}
	}
	channel := func(cs, cb uint8) uint8 {
		csn, cbn := unit(cs), unit(cb)
		// The backdrop shows through the blend where it is itself transparent.
		blended := (1-ab)*csn + ab*mode.apply(csn, cbn)
		co := as*fa*blended + ab*fb*cbn
		return byteOf(co / ao)
	}
	return color.NRGBA{
		R: channel(s.R, b.R),
		G: channel(s.G, b.G),
		B: channel(s.B, b.B),
		A: byteOf(ao),
	}
}

func unit(v uint8) float64 { return float64(v) / 255 }

func byteOf(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
