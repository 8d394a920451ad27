// Package jsonc decodes JSON-with-comments configuration files.
//
// Comments are removed by a single scan that understands string literals,
// so comment markers inside strings (URLs, globs) are left alone. Line
// breaks inside removed comments are preserved, which keeps the line
// numbers in parser errors pointing at the original file.
package jsonc

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/jsonvalue"
	"github.com/spf13/afero"
)

const (
	// ExtJSON is the plain JSON extension
	ExtJSON = ".json"
	// ExtJSONC is the JSON-with-comments extension
	ExtJSONC = ".jsonc"
)

type scanMode int

const (
	modeNormal scanMode = iota
	modeString
	modeLineComment
	modeBlockComment
)

// Strip removes // and /* */ comments from src.
func Strip(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	mode := modeNormal
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]
		var next byte
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch mode {
		case modeLineComment:
			if c == '\n' || c == '\r' {
				mode = modeNormal
				b.WriteByte(c)
			}

		case modeBlockComment:
			if c == '*' && next == '/' {
				mode = modeNormal
				i++
				continue
			}
			if c == '\n' || c == '\r' {
				b.WriteByte(c)
			}

		case modeString:
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				mode = modeNormal
			}

		default:
			switch {
			case c == '"':
				mode = modeString
				b.WriteByte(c)
			case c == '/' && next == '/':
				mode = modeLineComment
				i++
			case c == '/' && next == '*':
				mode = modeBlockComment
				i++
			default:
				b.WriteByte(c)
			}
		}
	}

	return b.String()
}

// IsJSONC reports whether path names a JSON-with-comments file.
func IsJSONC(path string) bool {
	return strings.HasSuffix(filepath.Base(path), ExtJSONC)
}

// IsJSON reports whether path names a JSON or JSONC file.
func IsJSON(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ExtJSON) || strings.HasSuffix(name, ExtJSONC)
}

// Decode parses data read from path. Comments are stripped first when path
// has the .jsonc extension.
func Decode(path string, data []byte) (jsonvalue.Value, error) {
	content := string(data)
	if IsJSONC(path) {
		content = Strip(content)
	}

	v, err := jsonvalue.Parse([]byte(content))
	if err != nil {
		return jsonvalue.Value{}, errors.Wrapf(err, errors.ErrMalformedConfigFile,
			"failed to parse JSON/JSONC profile file %s", path).
			WithDetail("path", path)
	}
	return v, nil
}

// DecodeFile reads and decodes path from fsys.
func DecodeFile(fsys afero.Fs, path string) (jsonvalue.Value, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return jsonvalue.Value{}, errors.Wrapf(err, errors.ErrMalformedConfigFile,
			"failed to read JSON/JSONC profile file %s", path).
			WithDetail("path", path)
	}
	return Decode(path, data)
}
