package spacetraveling

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// PostPath is the site route of the post with uid.
func PostPath(uid string) string {
	return "/post/" + url.PathEscape(uid)
}

// ValidSlug reports whether s can be a Prismic UID. UIDs are lowercase
// without spaces or slashes, so anything else is answered with 404 without
// asking the repository.
func ValidSlug(s string) bool {
	if s == "" || len(s) > 200 {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !unicode.IsUpper(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, ".")
}

// seconds formats d as whole seconds for HTTP headers.
func seconds(d time.Duration) string {
	return strconv.Itoa(int(d / time.Second))
}
