package access

import (
	"log/slog"
	"strings"
)

// Class is the authorization level a request path requires.
type Class int

const (
	// Unclassified paths match no configured prefix and are allowed through.
	Unclassified Class = iota
	Public
	AdminProtected
	CustomerProtected
)

// String returns the label used in logs and metrics.
func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case AdminProtected:
		return "admin"
	case CustomerProtected:
		return "customer"
	default:
		return "unclassified"
	}
}

// Gated reports whether requests of this class go through a session resolver.
func (c Class) Gated() bool {
	return c == AdminProtected || c == CustomerProtected
}

// Table maps path prefixes to classes. It is built once at startup and never
// mutated afterwards, so it is safe for concurrent use.
type Table struct {
	public   []string
	admin    []string
	customer []string
}

// NewTable builds a Table from the given prefix lists. The slices are copied.
func NewTable(public, admin, customer []string) Table {
	return Table{
		public:   clonePrefixes(public),
		admin:    clonePrefixes(admin),
		customer: clonePrefixes(customer),
	}
}

// Classify returns the class of path. Public prefixes are checked first, then
// admin, then customer; the first match wins. Matching is case-sensitive.
func (t Table) Classify(path string) Class {
	if hasAnyPrefix(path, t.public) {
		return Public
	}
	if hasAnyPrefix(path, t.admin) {
		return AdminProtected
	}
	if hasAnyPrefix(path, t.customer) {
		return CustomerProtected
	}
	return Unclassified
}

// Prefixes returns a copy of the prefixes configured for class c.
func (t Table) Prefixes(c Class) []string {
	switch c {
	case Public:
		return clonePrefixes(t.public)
	case AdminProtected:
		return clonePrefixes(t.admin)
	case CustomerProtected:
		return clonePrefixes(t.customer)
	default:
		return nil
	}
}

// LogValue groups the configured prefixes by class.
func (t Table) LogValue() slog.Value {
	classes := []Class{Public, AdminProtected, CustomerProtected}
	attrs := make([]slog.Attr, 0, len(classes))
	for _, c := range classes {
		attrs = append(attrs, slog.Any(c.String(), t.Prefixes(c)))
	}
	return slog.GroupValue(attrs...)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func clonePrefixes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
