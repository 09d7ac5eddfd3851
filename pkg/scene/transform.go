package scene

// Scale limits. Program-driven fit may reach down to MinScale but never
// above MaxFitScale; user zoom may go up to MaxScale.
const (
	MinScale    = 0.2
	MaxFitScale = 2.0
	MaxScale    = 4.0
)

// Transform maps layout space to screen space: screen = layout*Scale +
// Translate. It is owned by the interaction layer and mutated only
// through the Scene's pan/zoom/fit methods.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// Identity returns the unit transform.
func Identity() Transform { return Transform{Scale: 1} }

// Apply maps a layout-space point to screen space.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	return x*t.Scale + t.TranslateX, y*t.Scale + t.TranslateY
}

// Invert maps a screen-space point back to layout space.
func (t Transform) Invert(sx, sy float64) (x, y float64) {
	return (sx - t.TranslateX) / t.Scale, (sy - t.TranslateY) / t.Scale
}

// ZoomedAt returns the transform with the new scale, with translate
// recomputed so the screen point (ax, ay) maps to the same layout point
// before and after:
//
//	translate' = anchor - (anchor - translate) * (scaleNew/scaleOld)
func (t Transform) ZoomedAt(newScale, ax, ay float64) Transform {
	ratio := newScale / t.Scale
	return Transform{
		TranslateX: ax - (ax-t.TranslateX)*ratio,
		TranslateY: ay - (ay-t.TranslateY)*ratio,
		Scale:      newScale,
	}
}

func clampScale(s, max float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > max {
		return max
	}
	return s
}
