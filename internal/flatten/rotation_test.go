package flatten

import (
	"math"
	"testing"

	"layerpage/internal/layout"
)

func rotated(deg float64) layout.Transform {
	rad := deg * math.Pi / 180
	return layout.Transform{
		XX: math.Cos(rad),
		XY: math.Sin(rad),
		YX: -math.Sin(rad),
		YY: math.Cos(rad),
		TX: 12,
		TY: 34,
	}
}

func TestDecodeRotationQuadrants(t *testing.T) {
	for _, deg := range []int{0, 45, 90, 135, 180, 225, 270, 300, 315} {
		if got := DecodeRotation(rotated(float64(deg))); got != deg {
			t.Fatalf("DecodeRotation(%d°) = %d", deg, got)
		}
	}
}

func TestDecodeRotationIdentity(t *testing.T) {
	if got := DecodeRotation(layout.Transform{XX: 1, YY: 1}); got != 0 {
		t.Fatalf("identity decoded to %d", got)
	}
}

func TestDecodeRotationUnmatched(t *testing.T) {
	tests := map[string]layout.Transform{
		"scaled":   {XX: 2, XY: 0, YX: 0, YY: 2},
		"no case":  {XX: 0.5, XY: 0.5, YX: 0, YY: 1},
		"all zero": {},
	}
	for name, tr := range tests {
		if got := DecodeRotation(tr); got != 0 {
			t.Fatalf("%s: got %d, want 0", name, got)
		}
	}
}

func TestDecodeRotationFourthQuadrantFallback(t *testing.T) {
	base := rotated(300)

	zero := base
	zero.YX = 0
	if got := DecodeRotation(zero); got != 300 {
		t.Fatalf("zero c fallback = %d, want 300", got)
	}

	outOfRange := base
	outOfRange.YX = 2
	if got := DecodeRotation(outOfRange); got != 300 {
		t.Fatalf("NaN c fallback = %d, want 300", got)
	}
}

func TestDecodeRotationWrapsFullTurn(t *testing.T) {
	// a=30 b=150 selects the 270-360 case; c=0 and d=0 give 360.
	tr := layout.Transform{XX: 0.5, XY: math.Cos(150 * math.Pi / 180), YX: 0, YY: 1}
	if got := DecodeRotation(tr); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}
}

func TestDecodeRotationIgnoresTranslation(t *testing.T) {
	a := rotated(90)
	b := a
	b.TX, b.TY = -500, 9000
	if DecodeRotation(a) != DecodeRotation(b) {
		t.Fatalf("translation changed the decoded angle")
	}
}

func TestClassifyRotation(t *testing.T) {
	tests := []struct {
		deg  float64
		want rotationCase
	}{
		{0, rotationUpperHalf},
		{135, rotationUpperHalf},
		{225, rotationThirdQuadrant},
		{315, rotationFourthQuadrant},
	}
	for _, tt := range tests {
		if got := classifyRotation(anglesOf(rotated(tt.deg))); got != tt.want {
			t.Fatalf("classify(%v) = %s, want %s", tt.deg, got, tt.want)
		}
	}
	if got := classifyRotation(anglesOf(layout.Transform{XX: 3})); got != rotationUnmatched {
		t.Fatalf("out of range classified as %s", got)
	}
}
