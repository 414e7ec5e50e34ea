package loader

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/model"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// ParseModDescriptor parses a mod's `.mod` descriptor — a flat sequence
// of `key = value` / `key = { "a" "b" }` expressions — and projects the
// recognized keys onto a ModDescriptor. Unrecognized keys are ignored.
func ParseModDescriptor(src string) (*model.ModDescriptor, []*script.ParseError) {
	mod, errs := script.ParseModule(src)
	if len(errs) > 0 {
		return nil, errs
	}

	def := &model.ModDescriptor{}
	for _, item := range mod.Items {
		if item.Kind != script.ItemExpression {
			continue
		}
		switch strings.ToLower(item.Key) {
		case "name":
			def.Name = stringValue(item.Value)
		case "path":
			def.Path = stringValue(item.Value)
		case "version":
			def.Version = stringValue(item.Value)
		case "supported_version":
			def.SupportedVersion = stringValue(item.Value)
		case "picture":
			def.Picture = stringValue(item.Value)
		case "remote_file_id":
			def.RemoteFileID = stringValue(item.Value)
		case "archive":
			def.Archive = stringValue(item.Value)
		case "tags":
			def.Tags = stringListValue(item.Value)
		case "dependencies":
			def.Dependencies = stringListValue(item.Value)
		}
	}
	return def, nil
}

func stringValue(v *script.Value) string {
	if v == nil || v.Kind != script.ValString {
		return ""
	}
	return v.StringText
}

func stringListValue(v *script.Value) []string {
	if v == nil || v.Kind != script.ValEntity || v.Entity == nil {
		return nil
	}
	var out []string
	for _, item := range v.Entity.Items {
		if item.Kind == script.ItemPositional && item.Positional != nil && item.Positional.Kind == script.ValString {
			out = append(out, item.Positional.StringText)
		}
	}
	return out
}
