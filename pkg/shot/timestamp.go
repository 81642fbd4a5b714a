package shot

import (
	"fmt"
	"math"
)

// Timestamp formats a frame count as a signed hh:mm:ss.mmm string.
func Timestamp(frames int, fps float64) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	sign := ""
	if frames < 0 {
		sign = "-"
		frames = -frames
	}
	f := float64(frames)
	h := int(f / (3600 * fps))
	m := int(math.Mod(f/(60*fps), 60))
	s := int(math.Mod(f/fps, 60))
	ms := int(math.Mod(f, fps) * 1000 / fps)
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, s, ms)
}
