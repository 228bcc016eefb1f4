package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var payloadSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(payloadSchema)

// Validate checks a payload against the schema agreed with the workflow system.
func Validate(p Payload) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload does not match schema: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Marshal validates the payload and encodes it as indented JSON.
func Marshal(p Payload) ([]byte, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}
