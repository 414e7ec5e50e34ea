package syntax

// Scanner is a byte-offset cursor over source text. It has no separate
// token stream: callers pull identifiers, strings, numbers, operators and
// trivia directly off the cursor as the recursive-descent parser needs
// them, rather than pre-tokenizing the whole input in a separate pass.
type Scanner struct {
	src string
	pos int
}

// New returns a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// SetPos rewinds or fast-forwards the cursor; used for backtracking when a
// tentative parse fails.
func (s *Scanner) SetPos(pos int) { s.pos = pos }

// Source returns the full source text the scanner was constructed with.
func (s *Scanner) Source() string { return s.src }

// Eof reports whether the cursor is at or past the end of input.
func (s *Scanner) Eof() bool { return s.pos >= len(s.src) }

func (s *Scanner) byteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= len(s.src) {
		return 0, false
	}
	return s.src[offset], true
}

func (s *Scanner) current() (byte, bool) { return s.byteAt(s.pos) }

// AtValueTerminator reports whether the cursor sits at one of the bytes (or
// EOF) that may legally end a value token: whitespace, #, }, ], ), =, <, >,
// ;, ?, ", {, or end of input.
func (s *Scanner) AtValueTerminator() bool {
	b, ok := s.current()
	if !ok {
		return true
	}
	switch b {
	case ' ', '\t', '\n', '\r', '#', '}', ']', ')', '=', '<', '>', ';', '?', '"', '{':
		return true
	default:
		return false
	}
}

func isInlineSpace(b byte) bool { return b == ' ' || b == '\t' }

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isIdentStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') ||
		b == '_' || (b >= '0' && b <= '9') || b == '-' || b == '$' || b == '@'
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || b == ':' || b == '.' || b == '|' || b == '/' || b == '\''
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ---- trivia ----

// TriviaKind distinguishes the two members of a trivia run.
type TriviaKind int

const (
	TriviaWhitespace TriviaKind = iota
	TriviaComment
)

// Comment is a '#' to end-of-line comment; Text excludes the leading '#'
// and the terminating newline.
type Comment struct {
	Text string
	Span Span
}

// TriviaItem is one member of a trivia run: either a whitespace span
// (carrying the newline count it contained) or a comment.
type TriviaItem struct {
	Kind     TriviaKind
	Newlines int // set when Kind == TriviaWhitespace
	Comment  Comment
}

// ScanTrivia consumes a maximal run of interleaved whitespace and comments,
// returning the ordered list of items. It never fails; an empty input run
// yields an empty slice.
func (s *Scanner) ScanTrivia() []TriviaItem {
	var items []TriviaItem
	for {
		b, ok := s.current()
		if !ok {
			return items
		}
		switch {
		case isWhitespace(b):
			start := s.pos
			for {
				b, ok := s.current()
				if !ok || !isWhitespace(b) {
					break
				}
				s.pos++
			}
			items = append(items, TriviaItem{
				Kind:     TriviaWhitespace,
				Newlines: countNewlines(s.src[start:s.pos]),
			})
		case b == '#':
			items = append(items, TriviaItem{Kind: TriviaComment, Comment: s.scanComment()})
		default:
			return items
		}
	}
}

// scanComment assumes the cursor is at '#'. It consumes through end of
// line; the newline is consumed but excluded from the comment's span and
// text.
func (s *Scanner) scanComment() Comment {
	start := s.pos
	s.pos++ // '#'
	for {
		b, ok := s.current()
		if !ok || b == '\n' {
			break
		}
		if b == '\r' {
			break
		}
		s.pos++
	}
	text := s.src[start+1 : s.pos]
	span := Span{Start: start, End: s.pos}
	if b, ok := s.current(); ok && b == '\r' {
		s.pos++
	}
	if b, ok := s.current(); ok && b == '\n' {
		s.pos++
	}
	return Comment{Text: text, Span: span}
}

// TrailingComment consumes inline spaces/tabs and then an optional comment
// on the same line. It does not consume a trailing newline when no comment
// follows, leaving it for the next ScanTrivia call (so blank-line counting
// before the next node stays correct).
func (s *Scanner) TrailingComment() (Comment, bool) {
	for {
		b, ok := s.current()
		if !ok || !isInlineSpace(b) {
			break
		}
		s.pos++
	}
	if b, ok := s.current(); ok && b == '#' {
		return s.scanComment(), true
	}
	return Comment{}, false
}

// LeadingNewlines counts the blank lines in a trivia run: each whitespace
// item contributes its newlines in excess of 1 (a single newline is
// ordinary line separation, not a "blank line before" marker). A comment
// consumes the newline ending its own line, so whitespace right after a
// comment has that newline added back before the excess is taken.
func LeadingNewlines(items []TriviaItem) int {
	total := 0
	afterComment := false
	for _, it := range items {
		if it.Kind == TriviaComment {
			afterComment = true
			continue
		}
		n := it.Newlines
		if afterComment {
			n++
		}
		if n > 1 {
			total += n - 1
		}
		afterComment = false
	}
	return total
}

// Comments extracts just the comment members of a trivia run, in order.
func Comments(items []TriviaItem) []Comment {
	var out []Comment
	for _, it := range items {
		if it.Kind == TriviaComment {
			out = append(out, it.Comment)
		}
	}
	return out
}

// ---- identifiers, strings, numbers, operators ----

// Identifier scans `[A-Za-z_0-9-$@][A-Za-z0-9_:.@|/$'-]*`, committing only
// if the match is immediately followed by a value terminator (mirroring
// Number): this keeps "@[" from scanning as the one-byte identifier "@"
// and shadowing inline maths. Returns ok=false without consuming input
// if the cursor isn't at an identifier start or the terminator check
// fails.
func (s *Scanner) Identifier() (text string, span Span, ok bool) {
	b, have := s.current()
	if !have || !isIdentStart(b) {
		return "", Span{}, false
	}
	start := s.pos
	pos := start + 1
	for {
		b, have := s.byteAt(pos)
		if !have || !isIdentCont(b) {
			break
		}
		pos++
	}

	saved := s.pos
	s.pos = pos
	terminated := s.AtValueTerminator()
	s.pos = saved
	if !terminated {
		return "", Span{}, false
	}

	s.pos = pos
	return s.src[start:pos], Span{Start: start, End: pos}, true
}

// IdentifierRun scans the same character class as Identifier but without
// requiring a trailing value terminator. Used where the caller already
// knows what must follow — e.g. a CWT tag keyword immediately before '[',
// which isn't itself a value terminator.
func (s *Scanner) IdentifierRun() (text string, span Span, ok bool) {
	b, have := s.current()
	if !have || !isIdentStart(b) {
		return "", Span{}, false
	}
	start := s.pos
	pos := start + 1
	for {
		b, have := s.byteAt(pos)
		if !have || !isIdentCont(b) {
			break
		}
		pos++
	}
	s.pos = pos
	return s.src[start:pos], Span{Start: start, End: pos}, true
}

// QuotedString scans a `"…"` string, where `\` escapes the following byte
// (so `\"` does not terminate the string). Returns the raw text between the
// quotes, escapes intact, so formatting can re-emit it byte-for-byte.
func (s *Scanner) QuotedString() (text string, span Span, ok bool) {
	b, have := s.current()
	if !have || b != '"' {
		return "", Span{}, false
	}
	start := s.pos
	s.pos++
	contentStart := s.pos
	for {
		b, have := s.current()
		if !have {
			// Unterminated string: treat EOF as the close so callers can
			// still report a span; parser-level error reporting decides
			// whether this is fatal.
			if s.pos > len(s.src) {
				s.pos = len(s.src) // a trailing `\` skipped past the end
			}
			return s.src[contentStart:s.pos], Span{Start: start, End: s.pos}, true
		}
		if b == '\\' {
			s.pos += 2
			continue
		}
		if b == '"' {
			content := s.src[contentStart:s.pos]
			s.pos++
			return content, Span{Start: start, End: s.pos}, true
		}
		s.pos++
	}
}

// Number scans `[-+]?digits(.digits)?`, but only commits if the match is
// immediately followed by a value terminator (so "1abc" is not a number).
// On failure the cursor is left unchanged.
func (s *Scanner) Number() (text string, span Span, ok bool) {
	start := s.pos
	pos := s.pos

	if b, have := s.byteAt(pos); have && (b == '+' || b == '-') {
		pos++
	}
	digitsStart := pos
	for {
		b, have := s.byteAt(pos)
		if !have || !isDigit(b) {
			break
		}
		pos++
	}
	if pos == digitsStart {
		return "", Span{}, false
	}
	if b, have := s.byteAt(pos); have && b == '.' {
		if b2, have2 := s.byteAt(pos + 1); have2 && isDigit(b2) {
			pos++
			for {
				b, have := s.byteAt(pos)
				if !have || !isDigit(b) {
					break
				}
				pos++
			}
		}
	}

	saved := s.pos
	s.pos = pos
	terminated := s.AtValueTerminator()
	s.pos = saved
	if !terminated {
		return "", Span{}, false
	}

	s.pos = pos
	return s.src[start:pos], Span{Start: start, End: pos}, true
}

// Operator matches the relational/assignment operators longest-first:
// >=, <=, !=, +=, -=, *=, ?=, then the single-character operators.
func (s *Scanner) Operator() (Operator, Span, bool) {
	start := s.pos
	if b1, ok1 := s.byteAt(s.pos); ok1 {
		if b2, ok2 := s.byteAt(s.pos + 1); ok2 {
			two := string([]byte{b1, b2})
			if op, found := twoCharOperators[two]; found {
				s.pos += 2
				return op, Span{Start: start, End: s.pos}, true
			}
		}
		if op, found := oneCharOperators[b1]; found {
			s.pos++
			return op, Span{Start: start, End: s.pos}, true
		}
	}
	return OpUnknown, Span{}, false
}

// Peek returns the byte at the cursor without consuming it.
func (s *Scanner) Peek() (byte, bool) { return s.current() }

// PeekAhead returns the byte n positions ahead of the cursor (n=0 is Peek).
func (s *Scanner) PeekAhead(n int) (byte, bool) { return s.byteAt(s.pos + n) }

// StartsWith reports whether the literal text occurs at the cursor.
func (s *Scanner) StartsWith(lit string) bool {
	if s.pos+len(lit) > len(s.src) {
		return false
	}
	return s.src[s.pos:s.pos+len(lit)] == lit
}

// Advance consumes n bytes unconditionally; callers use it after StartsWith.
func (s *Scanner) Advance(n int) { s.pos += n }
