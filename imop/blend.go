package imop

import "github.com/esimov/gamebridge/utils"

// Mode is a separable blend mode. The empty Mode is Normal.
type Mode string

const (
	Normal   Mode = ""
	Darken   Mode = "darken"
	Lighten  Mode = "lighten"
	Multiply Mode = "multiply"
	Screen   Mode = "screen"
	Overlay  Mode = "overlay"
)

func (m Mode) valid() bool {
	switch m {
	case Normal, Darken, Lighten, Multiply, Screen, Overlay:
		return true
	}
	return false
}

// apply returns the blended value of source channel cs over backdrop cb.
func (m Mode) apply(cs, cb float64) float64 {
	switch m {
	case Darken:
		return utils.Min(cs, cb)
	case Lighten:
		return utils.Max(cs, cb)
	case Multiply:
		return cs * cb
	case Screen:
		return cs + cb - cs*cb
	case Overlay:
		if cb <= 0.5 {
			return 2 * cs * cb
		}
		return 1 - 2*(1-cs)*(1-cb)
	}
	return cs
}
