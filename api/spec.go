// Package api embeds the OpenAPI description served at /openapi.json.
package api

import _ "embed"

// OpenAPISpec is the raw OpenAPI 3 document in YAML.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
