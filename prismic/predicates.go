package prismic

import (
	"strconv"
	"strings"
)

// Predicate is a single query clause such as [at(document.type, "posts")].
type Predicate string

// At matches documents whose path equals value.
func At(path, value string) Predicate {
	return Predicate("[at(" + path + ", " + strconv.Quote(value) + ")]")
}

// Any matches documents whose path equals one of values.
func Any(path string, values ...string) Predicate {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return Predicate("[any(" + path + ", [" + strings.Join(quoted, ", ") + "])]")
}

// Query renders predicates into the q parameter value.
func Query(preds ...Predicate) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, p := range preds {
		b.WriteString(string(p))
	}
	b.WriteByte(']')
	return b.String()
}

// Ordering sorts results by a field.
type Ordering struct {
	Field string
	Desc  bool
}

// Orderings renders a sort expression such as
// [document.first_publication_date desc, document.id].
func Orderings(os ...Ordering) string {
	parts := make([]string, len(os))
	for i, o := range os {
		parts[i] = o.Field
		if o.Desc {
			parts[i] += " desc"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
