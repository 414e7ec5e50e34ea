package script

import "strings"

// AsBool interprets an unquoted String value as a boolean: "yes"/"true"
// for true, "no"/"false" for false, case-insensitively. ok is false for
// quoted strings and any other text.
func (v *Value) AsBool() (value bool, ok bool) {
	if v.Kind != ValString || v.Quoted {
		return false, false
	}
	switch strings.ToLower(v.StringText) {
	case "yes", "true":
		return true, true
	case "no", "false":
		return false, true
	default:
		return false, false
	}
}
