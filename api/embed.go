// Package api holds the OpenAPI description of the HTTP surface.
package api

import _ "embed"

// OpenAPISpec is the raw OpenAPI 3.1 document.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
