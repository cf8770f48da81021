package flatten

import (
	"crypto/md5"
	"encoding/hex"
	"image"
	"path"
	"path/filepath"
)

// Asset image names use fingerprint[1:7]. Collisions on the six-character
// slice are accepted.
const (
	imageNameOffset = 1
	imageNameLength = 6
)

// Fingerprint returns the hex MD5 digest of a pixel buffer.
func Fingerprint(pixels []byte) string {
	sum := md5.Sum(pixels)
	return hex.EncodeToString(sum[:])
}

// ImagePath maps a fingerprint to its asset path under imagesDir, always with
// forward slashes so it can be used as a URL.
func ImagePath(imagesDir, fingerprint string) string {
	name := fingerprint
	if len(name) >= imageNameOffset+imageNameLength {
		name = name[imageNameOffset : imageNameOffset+imageNameLength]
	}
	return path.Join(filepath.ToSlash(imagesDir), name+".png")
}

// PixelBuffer returns the row-major RGBA bytes of img without stride padding.
func PixelBuffer(img *image.NRGBA) []byte {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	rowLen := bounds.Dx() * 4
	if rowLen == 0 || bounds.Dy() == 0 {
		return nil
	}
	if img.Stride == rowLen {
		return img.Pix[:rowLen*bounds.Dy()]
	}
	buf := make([]byte, 0, rowLen*bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		start := y * img.Stride
		buf = append(buf, img.Pix[start:start+rowLen]...)
	}
	return buf
}
