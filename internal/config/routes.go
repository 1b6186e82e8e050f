package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/emporium-commerce/emporium/internal/access"
)

// RouteTable lists the path prefixes for each access class.
type RouteTable struct {
	Public   []string `json:"public"`
	Admin    []string `json:"admin"`
	Customer []string `json:"customer"`
}

// DefaultRoutes returns the built-in route table.
func DefaultRoutes() RouteTable {
	return RouteTable{
		Public: []string{
			"/login",
			"/health",
			"/metrics",
			"/openapi.json",
			"/api/auth/",
			"/api/public/",
			"/api/newsletter/",
		},
		Admin:    []string{"/admin", "/api/admin"},
		Customer: []string{"/account", "/api/customer"},
	}
}

// LoadRoutes reads a YAML route table from path. An empty path yields the
// defaults.
func LoadRoutes(path string) (RouteTable, error) {
	if path == "" {
		return DefaultRoutes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RouteTable{}, fmt.Errorf("reading routes file: %w", err)
	}

	return ParseRoutes(data)
}

// ParseRoutes decodes and validates a YAML route table.
func ParseRoutes(data []byte) (RouteTable, error) {
	var rt RouteTable
	if err := yaml.UnmarshalStrict(data, &rt); err != nil {
		return RouteTable{}, fmt.Errorf("parsing routes file: %w", err)
	}
	if err := rt.Validate(); err != nil {
		return RouteTable{}, err
	}
	return rt, nil
}

// Validate checks that every prefix is absolute and that admin routes exist.
func (rt RouteTable) Validate() error {
	if len(rt.Admin) == 0 {
		return errors.New("route table must list at least one admin prefix")
	}

	groups := map[string][]string{"public": rt.Public, "admin": rt.Admin, "customer": rt.Customer}
	for name, prefixes := range groups {
		for _, p := range prefixes {
			if !strings.HasPrefix(p, "/") {
				return fmt.Errorf("%s route prefix %q must start with /", name, p)
			}
		}
	}
	return nil
}

// Table builds the immutable classifier for rt.
func (rt RouteTable) Table() access.Table {
	return access.NewTable(rt.Public, rt.Admin, rt.Customer)
}
