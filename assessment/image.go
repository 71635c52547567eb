package assessment

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	varianceScale = 800.0
	imageConfMin  = 40.0
	imageConfMax  = 95.0
)

// AnalyzeImage scores a scan by the variance of its grayscale intensities.
// Anything that does not decode as an image scores 0.
func AnalyzeImage(data []byte) float64 {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	variance, ok := grayVariance(img)
	if !ok {
		return 0
	}
	return clamp(variance/varianceScale, imageConfMin, imageConfMax)
}

// grayVariance returns the population variance of the 8-bit luminance of img.
func grayVariance(img image.Image) (float64, bool) {
	bounds := img.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n <= 0 {
		return 0, false
	}

	var sum, sumSq float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			sum += v
			sumSq += v * v
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return variance, true
}
