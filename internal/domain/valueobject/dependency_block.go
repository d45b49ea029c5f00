package valueobject

// NoPosition marks a location that was not found.
const NoPosition = -1

// DependencyBlock locates the first dependencies call of a build script so a
// caller can insert a new declaration into it. Line is the line of the call.
// BraceColumn is the column of the last brace of the trailing closure on the
// call's line: the '}' of a one-line block, otherwise the opening '{'. The
// closing brace fields locate the matching '}'.
type DependencyBlock struct {
	Line               int `json:"line"                 yaml:"line"`
	BraceColumn        int `json:"brace_column"         yaml:"brace_column"`
	ClosingBraceLine   int `json:"closing_brace_line"   yaml:"closing_brace_line"`
	ClosingBraceColumn int `json:"closing_brace_column" yaml:"closing_brace_column"`
}

// MissingDependencyBlock is the result for scripts without a dependencies call.
func MissingDependencyBlock() DependencyBlock {
	return DependencyBlock{
		Line:               NoPosition,
		BraceColumn:        NoPosition,
		ClosingBraceLine:   NoPosition,
		ClosingBraceColumn: NoPosition,
	}
}

// Found reports whether a dependencies call was located.
func (b DependencyBlock) Found() bool {
	return b.Line != NoPosition
}

// HasClosingBrace reports whether the call had a trailing closure.
func (b DependencyBlock) HasClosingBrace() bool {
	return b.ClosingBraceLine != NoPosition
}
