package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a recoverable extraction error.
type Kind int

const (
	// KindShape is a failure extracting one shape; its siblings are still processed.
	KindShape Kind = iota
	// KindDiagram is a failure while scanning diagram markup; blocks emitted
	// before it are kept.
	KindDiagram
	// KindBenign is an expected graphic-frame condition that is not logged.
	KindBenign
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindDiagram:
		return "diagram"
	case KindBenign:
		return "benign"
	}
	return "unknown"
}

// GraphicFrameMarker marks error messages of the benign graphic-frame class.
const GraphicFrameMarker = "GRAPHIC_FRAME"

var (
	// ErrMaxDepth is returned for groups nested deeper than Format.MaxDepth.
	ErrMaxDepth = errors.New("group nesting exceeds maximum depth")
	// ErrRaggedTable is returned when a table row is shorter than the grid.
	ErrRaggedTable = errors.New("table row is shorter than column grid")
	// ErrNoGraphicData is returned for a graphic frame without graphic data.
	ErrNoGraphicData = errors.New(GraphicFrameMarker + ": frame has no graphic data")
)

// ShapeError is a recoverable failure tied to one shape of a slide.
type ShapeError struct {
	Kind  Kind
	Slide int // 0-based slide index, -1 when unknown
	Shape string
	Err   error
}

func (e *ShapeError) Error() string {
	if e.Slide < 0 {
		return fmt.Sprintf("shape %q: %s error: %v", e.Shape, e.Kind, e.Err)
	}
	return fmt.Sprintf("slide %d, shape %q: %s error: %v", e.Slide+1, e.Shape, e.Kind, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// IsBenign reports whether err belongs to the known-benign graphic-frame class.
func IsBenign(err error) bool {
	var se *ShapeError
	if errors.As(err, &se) && se.Kind == KindBenign {
		return true
	}
	return err != nil && strings.Contains(err.Error(), GraphicFrameMarker)
}

// panicError converts a recovered panic value into an error.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
