package tensor

// ShapeError reports an invalid or mismatched shape at construction or
// reshape time. The titaninfer package's error taxonomy does not inspect
// this type or map it to a sub-kind of its own.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string { return "tensor: invalid shape: " + e.Reason }
