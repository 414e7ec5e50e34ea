package script

import "github.com/abrenneke/stelpatch-sub002/internal/syntax"

// ParseError is internal/syntax's shared diagnostic type.
type ParseError = syntax.ParseError

var newParseError = syntax.NewParseError
