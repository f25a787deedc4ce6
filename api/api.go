// Package api embeds the OpenAPI description of the content service.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var spec []byte

// Raw returns the embedded document.
func Raw() []byte {
	return spec
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// BasePath is the path of the first declared server, e.g. "/api".
func BasePath(doc *openapi3.T) string {
	if doc == nil || len(doc.Servers) == 0 {
		return ""
	}
	return strings.TrimRight(doc.Servers[0].URL, "/")
}

// Operation finds the operation documented for method on a route template such as
// "/novels/{id}". Parameter names need not match. Returns nil when undocumented.
func Operation(doc *openapi3.T, method, route string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	item := doc.Paths.Find(route)
	if item == nil {
		return nil
	}
	return item.GetOperation(strings.ToUpper(method))
}
