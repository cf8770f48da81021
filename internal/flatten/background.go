package flatten

import "layerpage/internal/layout"

// backgroundTolerance is the largest per-channel difference allowed between a
// pixel and the one before it for the raster to count as a solid fill.
const backgroundTolerance = 5

// Background is the outcome of the background check. IsBackground marks the
// background slot; Color is set only when the slot is a uniform fill.
type Background struct {
	IsBackground bool
	Color        string
}

// DetectBackground classifies the last traversed node. It is the background
// slot only when isLast holds and its box is exactly the canvas. The pixel
// scan compares each pixel with its predecessor, so a slow gradient can still
// qualify; the color is taken from the last pixel.
func DetectBackground(info layout.NodeInfo, pixels []byte, isLast bool, canvasW, canvasH int) Background {
	if !isLast || info.Left != 0 || info.Top != 0 || info.Width != canvasW || info.Height != canvasH {
		return Background{}
	}
	result := Background{IsBackground: true}
	if last, ok := uniformFill(pixels); ok {
		result.Color = ToColorExpression(last)
	}
	return result
}

func uniformFill(pixels []byte) ([4]uint8, bool) {
	var last [4]uint8
	if len(pixels) < 4 {
		return last, false
	}
	copy(last[:], pixels[:4])
	for i := 4; i+4 <= len(pixels); i += 4 {
		var curr [4]uint8
		copy(curr[:], pixels[i:i+4])
		for ch := range curr {
			if absDiff(curr[ch], last[ch]) > backgroundTolerance {
				return last, false
			}
		}
		last = curr
	}
	return last, true
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
