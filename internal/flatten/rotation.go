package flatten

import (
	"math"

	"layerpage/internal/layout"
)

type rotationCase int

const (
	rotationUnmatched rotationCase = iota
	// 0°-180°: a == b or -a == b
	rotationUpperHalf
	// 180°-270°: -a + b == 180
	rotationThirdQuadrant
	// 270°-360°: a + b == 180
	rotationFourthQuadrant
)

func (c rotationCase) String() string {
	switch c {
	case rotationUpperHalf:
		return "0-180"
	case rotationThirdQuadrant:
		return "180-270"
	case rotationFourthQuadrant:
		return "270-360"
	default:
		return "unmatched"
	}
}

// rotationAngles holds the degree-rounded inverse trig of the linear part:
// a=asin(xx) b=acos(xy) c=asin(yx) d=acos(yy). Out-of-range components
// produce NaN, which never matches a case.
type rotationAngles struct {
	a, b, c, d float64
}

func anglesOf(t layout.Transform) rotationAngles {
	return rotationAngles{
		a: roundDegrees(math.Asin(t.XX)),
		b: roundDegrees(math.Acos(t.XY)),
		c: roundDegrees(math.Asin(t.YX)),
		d: roundDegrees(math.Acos(t.YY)),
	}
}

func roundDegrees(rad float64) float64 {
	return math.Round(180 * rad / math.Pi)
}

func classifyRotation(r rotationAngles) rotationCase {
	switch {
	case r.a == r.b || -r.a == r.b:
		return rotationUpperHalf
	case -r.a+r.b == 180:
		return rotationThirdQuadrant
	case r.a+r.b == 180:
		return rotationFourthQuadrant
	default:
		return rotationUnmatched
	}
}

var rotationResolvers = map[rotationCase]func(rotationAngles) float64{
	rotationUpperHalf: func(r rotationAngles) float64 {
		return r.d
	},
	rotationThirdQuadrant: func(r rotationAngles) float64 {
		return 180 + r.c
	},
	rotationFourthQuadrant: func(r rotationAngles) float64 {
		if r.c == 0 || math.IsNaN(r.c) {
			return 360 - r.d
		}
		return 360 - r.c
	},
	rotationUnmatched: func(rotationAngles) float64 {
		return 0
	},
}

// DecodeRotation recovers a whole-degree rotation in [0,360) from the linear
// part of an affine transform. TX and TY do not take part. Transforms that
// fit no case, or whose components are outside [-1,1], decode to 0.
func DecodeRotation(t layout.Transform) int {
	angles := anglesOf(t)
	deg := rotationResolvers[classifyRotation(angles)](angles)
	if math.IsNaN(deg) || deg < 0 || deg >= 360 {
		return 0
	}
	return int(deg)
}
