package web

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const searchSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "title":  {"type": "string", "maxLength": 256},
    "author": {"type": "string", "maxLength": 128},
    "genre":  {"type": "string", "maxLength": 128},
    "query":  {"type": "string", "maxLength": 512},
    "from":   {"type": "integer", "minimum": 0, "maximum": 1000000},
    "size":   {"type": "integer", "minimum": 1, "maximum": 500}
  }
}`

// searchRequest is the body of POST /api/search. Query, when set, is parsed
// with filter.Parse and takes precedence over the individual fields.
type searchRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Query  string `json:"query"`
	From   int    `json:"from"`
	Size   int    `json:"size"`
}

type validator struct {
	schema *gojsonschema.Schema
}

func newValidator(src string) (*validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &validator{schema: s}, nil
}

// validate returns the list of violations, empty when body is valid.
func (v *validator) validate(body []byte) ([]string, error) {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	out := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, e.String())
	}
	return out, nil
}
