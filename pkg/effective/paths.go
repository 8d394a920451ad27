package effective

import (
	"path"
	"strings"

	"github.com/arthur-debert/ocp/pkg/jsonc"
)

// LogicalPath returns the slash-separated identity of a profile file: the
// relative path with a trailing .jsonc normalised to .json, so x.json and
// x.jsonc collide.
func LogicalPath(relativePath string) string {
	p := path.Clean(strings.ReplaceAll(relativePath, "\\", "/"))
	if strings.HasSuffix(p, jsonc.ExtJSONC) {
		return strings.TrimSuffix(p, jsonc.ExtJSONC) + jsonc.ExtJSON
	}
	return p
}

// AlternateVariant returns the other JSON spelling of relativePath
// (x.json <-> x.jsonc), or "" when the file is not JSON.
func AlternateVariant(relativePath string) string {
	switch {
	case strings.HasSuffix(relativePath, jsonc.ExtJSONC):
		return strings.TrimSuffix(relativePath, jsonc.ExtJSONC) + jsonc.ExtJSON
	case strings.HasSuffix(relativePath, jsonc.ExtJSON):
		return strings.TrimSuffix(relativePath, jsonc.ExtJSON) + jsonc.ExtJSONC
	default:
		return ""
	}
}

// IsMergeable reports whether a file takes part in JSON deep merge.
func IsMergeable(relativePath string) bool {
	return jsonc.IsJSON(relativePath)
}

func extensionOf(relativePath string) string {
	switch {
	case jsonc.IsJSONC(relativePath):
		return jsonc.ExtJSONC
	case jsonc.IsJSON(relativePath):
		return jsonc.ExtJSON
	default:
		return ""
	}
}
