// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	schemaID          = "https://holomush.dev/schemas/exthost/extension.schema.json"
	schemaResource    = "extension.schema.json"
	validationPrefix  = "schema validation failed: "
	schemaTitle       = "exthost Extension Manifest"
	schemaDescription = "Schema for extension.yaml manifest files"
)

// manifestSchema compiles the reflected manifest schema on first use.
type manifestSchema struct {
	mu       sync.Mutex
	compiled *jschema.Schema
}

var defaultSchema manifestSchema

func (m *manifestSchema) get() (*jschema.Schema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.compiled == nil {
		sch, err := compileManifestSchema()
		if err != nil {
			return nil, err
		}
		m.compiled = sch
	}
	return m.compiled, nil
}

func (m *manifestSchema) reset() {
	m.mu.Lock()
	m.compiled = nil
	m.mu.Unlock()
}

// GenerateSchema reflects the Manifest type into a JSON Schema document.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	doc := r.Reflect(&Manifest{})
	doc.ID = jsonschema.ID(schemaID)
	doc.Title = schemaTitle
	doc.Description = schemaDescription

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, oops.In("schema").Wrapf(err, "marshal schema")
	}
	return out, nil
}

// ValidateSchema checks raw extension.yaml bytes against the manifest schema.
func ValidateSchema(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return oops.In("schema").Code("MANIFEST_EMPTY").New("manifest data is empty")
	}

	instance, err := yamlToInstance(data)
	if err != nil {
		return err
	}

	sch, err := defaultSchema.get()
	if err != nil {
		return oops.In("schema").Wrapf(err, "compile schema")
	}
	if err := sch.Validate(instance); err != nil {
		return oops.In("schema").Code("MANIFEST_SCHEMA").Wrapf(err, "schema validation failed")
	}
	return nil
}

// yamlToInstance decodes YAML and re-reads it as JSON so the validator sees
// the value types it expects (json.Number, map[string]any).
func yamlToInstance(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.In("schema").Code("MANIFEST_INVALID_YAML").Wrapf(err, "invalid YAML")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, oops.In("schema").Code("MANIFEST_INVALID_YAML").Hint("mapping keys must be strings").Wrapf(err, "invalid YAML")
	}
	instance, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.In("schema").Code("MANIFEST_INVALID_YAML").Wrapf(err, "re-decode manifest")
	}
	return instance, nil
}

func compileManifestSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, oops.In("schema").Wrapf(err, "parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource(schemaResource, doc); err != nil {
		return nil, oops.In("schema").Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile(schemaResource)
	if err != nil {
		return nil, oops.In("schema").Wrapf(err, "compile schema")
	}
	return sch, nil
}

// ResetSchemaCache drops the compiled schema so the next validation rebuilds it.
func ResetSchemaCache() { defaultSchema.reset() }

// GetSchemaID returns the $id published in the generated schema.
func GetSchemaID() string { return schemaID }

// FormatSchemaError strips the validation prefix so CLI output shows only
// the violations.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, validationPrefix); ok {
		return after
	}
	return msg
}
