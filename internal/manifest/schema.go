package manifest

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/andyballingall/prettier-hook/manifest.schema.json"

// manifestSchema only constrains the fields the hook reads. Everything else in a
// package.json is left alone.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "version": {"type": "string"},
    "bin": {
      "oneOf": [
        {"type": "string"},
        {"type": "object", "additionalProperties": {"type": "string"}}
      ]
    },
    "dependencies": {"$ref": "#/definitions/dependencyMap"},
    "devDependencies": {"$ref": "#/definitions/dependencyMap"},
    "optionalDependencies": {"$ref": "#/definitions/dependencyMap"},
    "peerDependencies": {"$ref": "#/definitions/dependencyMap"},
    "workspaces": {
      "oneOf": [
        {"$ref": "#/definitions/patterns"},
        {"type": "object", "properties": {"packages": {"$ref": "#/definitions/patterns"}}}
      ]
    }
  },
  "definitions": {
    "dependencyMap": {"type": "object", "additionalProperties": {"type": "string"}},
    "patterns": {"type": "array", "items": {"type": "string"}}
  }
}`

// compiledSchema compiles manifestSchema once per process.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(manifestSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})
