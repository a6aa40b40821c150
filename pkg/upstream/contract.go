package upstream

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Contract is a compiled JSON schema describing a backend payload the
// gateway depends on. Contracts are compiled once and are safe for
// concurrent use.
type Contract struct {
	name   string
	schema *gojsonschema.Schema
}

// NewContract compiles a JSON schema document.
func NewContract(name, schema string) (*Contract, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s contract: %w", name, err)
	}
	return &Contract{name: name, schema: compiled}, nil
}

// MustContract is like NewContract but panics on an invalid schema.
// It is meant for package-level contracts defined as string literals.
func MustContract(name, schema string) *Contract {
	c, err := NewContract(name, schema)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the contract name.
func (c *Contract) Name() string {
	return c.name
}

// Validate checks body against the contract. It returns a *ContractError
// when body is not JSON or violates the schema.
func (c *Contract) Validate(backend string, body []byte) error {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ContractError{
			Backend:     backend,
			Contract:    c.name,
			RawResponse: truncate(string(body), maxErrorBody),
			Cause:       err,
		}
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return &ContractError{
			Backend:     backend,
			Contract:    c.name,
			Violations:  violations,
			RawResponse: truncate(string(body), maxErrorBody),
		}
	}

	return nil
}

// Decode validates body against the contract and unmarshals it into out.
func (c *Contract) Decode(backend string, body []byte, out any) error {
	if err := c.Validate(backend, body); err != nil {
		return err
	}
	return Decode(backend, body, out)
}
