package dag

// Shape tags a combinator node.
type Shape int

// Combinator shapes. Only unit, injections, pairs and words can encode
// literals; see [Shape.IsScribe].
const (
	ShapeIden Shape = iota
	ShapeUnit
	ShapeInjL
	ShapeInjR
	ShapeTake
	ShapeDrop
	ShapeComp
	ShapeCase
	ShapeAssertL
	ShapeAssertR
	ShapePair
	ShapeDisconnect
	ShapeWitness
	ShapeFail
	ShapeHidden
	ShapeJet
	ShapeWord
)

var shapeNames = [...]string{
	ShapeIden:       "iden",
	ShapeUnit:       "unit",
	ShapeInjL:       "injl",
	ShapeInjR:       "injr",
	ShapeTake:       "take",
	ShapeDrop:       "drop",
	ShapeComp:       "comp",
	ShapeCase:       "case",
	ShapeAssertL:    "assertl",
	ShapeAssertR:    "assertr",
	ShapePair:       "pair",
	ShapeDisconnect: "disconnect",
	ShapeWitness:    "witness",
	ShapeFail:       "fail",
	ShapeHidden:     "hidden",
	ShapeJet:        "jet",
	ShapeWord:       "word",
}

// String returns the lower-case combinator name.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// Arity returns the number of children a node of this shape has.
func (s Shape) Arity() int {
	switch s {
	case ShapeComp, ShapeCase, ShapePair, ShapeDisconnect:
		return 2
	case ShapeInjL, ShapeInjR, ShapeTake, ShapeDrop, ShapeAssertL, ShapeAssertR:
		return 1
	default:
		return 0
	}
}

// IsScribe reports whether nodes of this shape can encode a literal value,
// given literal children. Every other shape is opaque to recognition.
func (s Shape) IsScribe() bool {
	switch s {
	case ShapeUnit, ShapeInjL, ShapeInjR, ShapePair, ShapeWord:
		return true
	default:
		return false
	}
}
