package registry

import (
	"strings"
	"unicode"
)

// NameFromURI derives a repository name from its URI.
//
//	git@github.com:acme/profiles.git    -> acme-profiles
//	https://github.com/acme/profiles    -> acme-profiles
//	file:///srv/git/profiles.git        -> profiles
//	/home/me/profiles                   -> profiles
//
// It returns "" when no name can be derived.
func NameFromURI(uri string) string {
	trimmed := strings.TrimSpace(uri)
	trimmed = strings.TrimRight(trimmed, `/\`)
	if trimmed == "" {
		return ""
	}

	segments, namespaced := pathInfo(trimmed)
	if len(segments) == 0 {
		return ""
	}

	repo := normalizeSegment(strings.TrimSuffix(segments[len(segments)-1], ".git"))
	if repo == "" {
		return ""
	}
	if !namespaced || len(segments) == 1 {
		return repo
	}

	var namespace []string
	for _, s := range segments[:len(segments)-1] {
		if n := normalizeSegment(s); n != "" {
			namespace = append(namespace, n)
		}
	}
	if len(namespace) == 0 {
		return repo
	}
	return strings.Join(namespace, "-") + "-" + repo
}

func pathInfo(uri string) ([]string, bool) {
	if isScpLike(uri) {
		i := strings.Index(uri, ":")
		return pathSegments(uri[i+1:]), true
	}

	if i := strings.Index(uri, "://"); i > 0 && isScheme(uri[:i]) {
		scheme := uri[:i]
		rest := uri[i+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return nil, false
		}
		return pathSegments(rest[slash+1:]), !strings.EqualFold(scheme, "file")
	}

	return pathSegments(uri), false
}

// isScpLike matches user@host:path, rejecting URLs and Windows drive paths.
func isScpLike(uri string) bool {
	if strings.Contains(uri, "://") || isWindowsDrive(uri) {
		return false
	}
	i := strings.Index(uri, ":")
	if i <= 0 || i == len(uri)-1 {
		return false
	}
	return !strings.ContainsAny(uri[:i], `/\`)
}

func isWindowsDrive(s string) bool {
	return len(s) >= 3 &&
		unicode.IsLetter(rune(s[0])) &&
		s[1] == ':' &&
		(s[2] == '\\' || s[2] == '/')
}

func isScheme(s string) bool {
	if s == "" || !unicode.IsLetter(rune(s[0])) {
		return false
	}
	for _, r := range s[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func pathSegments(path string) []string {
	var out []string
	for _, raw := range strings.Split(strings.ReplaceAll(path, `\`, "/"), "/") {
		if s := strings.TrimSpace(raw); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalizeSegment keeps letters, digits, '-', '_' and '.', collapsing runs
// of anything else into a single '-'. Leading '~' and edge dashes go.
func normalizeSegment(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), "~")
	if strings.TrimSpace(s) == "" {
		return ""
	}

	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
