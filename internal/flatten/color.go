package flatten

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ToColorExpression serializes an RGBA value for CSS. Opaque colors become hex
// (short form when every channel is a repeated digit pair), everything else an
// rgba() expression carrying the raw 0-255 channel values.
func ToColorExpression(rgba [4]uint8) string {
	if rgba[3] != 255 {
		return fmt.Sprintf("rgba(%d,%d,%d,%d)", rgba[0], rgba[1], rgba[2], rgba[3])
	}
	c, _ := colorful.MakeColor(color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: 255})
	return shortHex(c.Hex())
}

func shortHex(hex string) string {
	if len(hex) != 7 {
		return hex
	}
	if hex[1] == hex[2] && hex[3] == hex[4] && hex[5] == hex[6] {
		return "#" + string([]byte{hex[1], hex[3], hex[5]})
	}
	return hex
}
