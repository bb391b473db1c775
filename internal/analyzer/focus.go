package analyzer

import "image"

// Focus returns the edge-weighted centre of the detected blocks as an offset
// from the picture centre, each axis in [-0.5, 0.5]. Pictures without
// blocks focus on their centre.
func Focus(img image.Image, d Detector) (float64, float64, error) {
	b := img.Bounds()
	if b.Empty() {
		return 0, 0, nil
	}
	blocks, err := d.Detect(img)
	if err != nil {
		return 0, 0, err
	}

	var sx, sy, total float64
	for _, bl := range blocks {
		w := float64(bl.Edges)
		if w <= 0 {
			w = float64(bl.Rect.Dx() * bl.Rect.Dy())
		}
		sx += w * float64(bl.Rect.Min.X+bl.Rect.Max.X) / 2
		sy += w * float64(bl.Rect.Min.Y+bl.Rect.Max.Y) / 2
		total += w
	}
	if total == 0 {
		return 0, 0, nil
	}
	fx := (sx/total-float64(b.Min.X))/float64(b.Dx()) - 0.5
	fy := (sy/total-float64(b.Min.Y))/float64(b.Dy()) - 0.5
	return clampHalf(fx), clampHalf(fy), nil
}

func clampHalf(v float64) float64 {
	return max(-0.5, min(0.5, v))
}
