package transport

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// Path expands a template such as "/novels/{id}/rag/summaries/{doc_id}" with the given
// values, in order. Values are escaped with the OpenAPI "simple" path style.
// Empty values are rejected so a missing identifier never hits a collection route.
func Path(template string, values ...string) (string, error) {
	var b strings.Builder
	rest := template
	i := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated parameter in %q", ErrInvalidRequest, template)
		}
		name := rest[open+1 : open+end]
		if i >= len(values) {
			return "", fmt.Errorf("%w: missing value for %q in %q", ErrInvalidRequest, name, template)
		}
		if values[i] == "" {
			return "", fmt.Errorf("%w: empty %s", ErrInvalidRequest, name)
		}
		styled, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, values[i])
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
		}
		b.WriteString(rest[:open])
		b.WriteString(styled)
		rest = rest[open+end+1:]
		i++
	}
	if i != len(values) {
		return "", fmt.Errorf("%w: %d values for %d parameters in %q", ErrInvalidRequest, len(values), i, template)
	}
	return b.String(), nil
}

// Query builds query parameters with the OpenAPI "form" style. Empty values are skipped,
// which is how optional scopes (novel_id on characters) are left out.
func Query(pairs ...string) (url.Values, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of query arguments", ErrInvalidRequest)
	}
	q := url.Values{}
	for i := 0; i < len(pairs); i += 2 {
		name, value := pairs[i], pairs[i+1]
		if value == "" {
			continue
		}
		frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
	}
	return q, nil
}
