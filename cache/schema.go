package cache

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/citomni/kernel/errors"
)

// envelopeSchema is the structural contract for serialized artifacts. The
// Loader checks every artifact against it before trusting the content, so a
// truncated or hand-edited cache file fails loudly as corrupt instead of
// feeding half a snapshot into a booting process.
const envelopeSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["kind", "mode", "payload", "written_at", "identity"],
	"additionalProperties": false,
	"properties": {
		"kind": {"type": "string", "enum": ["config", "routes", "services"]},
		"mode": {"type": "string", "enum": ["http", "cli"]},
		"payload": {"type": "object"},
		"written_at": {"type": "string"},
		"identity": {"type": "string", "minLength": 1}
	}
}`

var (
	envelopeOnce     sync.Once
	envelopeCompiled *gojsonschema.Schema
	envelopeErr      error
)

// verifyEnvelope validates raw artifact bytes against the envelope schema
func verifyEnvelope(data []byte) error {
	envelopeOnce.Do(func() {
		envelopeCompiled, envelopeErr = gojsonschema.NewSchema(
			gojsonschema.NewStringLoader(envelopeSchema))
	})
	if envelopeErr != nil {
		return errors.WrapFatal(envelopeErr, "Loader", "verifyEnvelope", "compile envelope schema")
	}

	result, err := envelopeCompiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.WrapFatal(fmt.Errorf("%w: %v", errors.ErrArtifactCorrupt, err),
			"Loader", "verifyEnvelope", "parse artifact envelope")
	}

	if !result.Valid() {
		msg := "artifact envelope invalid:"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf(" %s: %s;", desc.Field(), desc.Description())
		}
		return errors.WrapFatal(fmt.Errorf("%w: %s", errors.ErrArtifactCorrupt, msg),
			"Loader", "verifyEnvelope", "validate artifact envelope")
	}
	return nil
}
