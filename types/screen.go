package types

// ScreenRect represents the pixel bounds of a display. A point is
// inside the rect when x is in [X, X+Width) and y is in [Y, Y+Height).
type ScreenRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp constrains p to the rect, each axis independently. The
// rightmost/bottommost representable pixel is Width-1/Height-1.
func (r ScreenRect) Clamp(p Point) Point {
	if p.X < r.X {
		p.X = r.X
	} else if max := r.X + r.Width - 1; p.X > max {
		p.X = max
	}
	if p.Y < r.Y {
		p.Y = r.Y
	} else if max := r.Y + r.Height - 1; p.Y > max {
		p.Y = max
	}
	return p
}

// Contains reports whether p falls inside the rect.
func (r ScreenRect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}
