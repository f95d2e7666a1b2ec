package components

// Body holds visual properties fixed at creation.
type Body struct {
	Radius float64 // draw radius in logical units, no collision semantics
}
