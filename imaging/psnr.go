package imaging

import (
	"math"
)

// CalculatePSNR compares the RGB channels of two equally sized images.
// Identical images give +Inf; mismatched sizes give 0.
func CalculatePSNR(original, stego *RGBImage) float64 {
	if original.Width() != stego.Width() || original.Height() != stego.Height() {
		return 0.0
	}

	samples := original.Width() * original.Height() * ChannelsPerPixel
	if samples == 0 {
		return 0.0
	}

	var mse float64
	for y := 0; y < original.Height(); y++ {
		for x := 0; x < original.Width(); x++ {
			for c := 0; c < ChannelsPerPixel; c++ {
				diff := float64(original.Channel(x, y, c)) - float64(stego.Channel(x, y, c))
				mse += diff * diff
			}
		}
	}
	mse /= float64(samples)

	if mse == 0 {
		return math.Inf(1)
	}

	// PSNR = 20 * log10(MAX / sqrt(MSE)), MAX = 255 for 8-bit channels
	maxSignalValue := 255.0
	return 20 * math.Log10(maxSignalValue/math.Sqrt(mse))
}

func ValidatePSNR(psnr float64, threshold float64) bool {
	if math.IsInf(psnr, 1) {
		return true
	}
	return psnr >= threshold
}
