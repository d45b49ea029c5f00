package script

// Position is a 1-based line and column in script source.
type Position struct {
	Line   int
	Column int
}

// Span locates a node in the source. Start is inclusive, End is exclusive:
// EndColumn is the column just after the node's last character.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	StartOffset int
	EndOffset   int
}

// Start returns the first position covered by the span.
func (s Span) Start() Position {
	return Position{Line: s.StartLine, Column: s.StartColumn}
}

// End returns the position just after the span.
func (s Span) End() Position {
	return Position{Line: s.EndLine, Column: s.EndColumn}
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	out := s
	if other.StartOffset < out.StartOffset {
		out.StartOffset = other.StartOffset
		out.StartLine = other.StartLine
		out.StartColumn = other.StartColumn
	}
	if other.EndOffset > out.EndOffset {
		out.EndOffset = other.EndOffset
		out.EndLine = other.EndLine
		out.EndColumn = other.EndColumn
	}
	return out
}
