package game

import "math"

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// distanceToSegment measures from (px,py) to the segment (x1,y1)-(x2,y2),
// clamping the projection parameter to [0,1]. A degenerate segment measures
// to its start point.
func distanceToSegment(x1, y1, x2, y2, px, py float64) float64 {
	cx, cy := x2-x1, y2-y1
	lenSq := cx*cx + cy*cy
	t := 0.0
	if lenSq != 0 {
		t = clamp(((px-x1)*cx+(py-y1)*cy)/lenSq, 0, 1)
	}
	return math.Hypot(px-(x1+t*cx), py-(y1+t*cy))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
