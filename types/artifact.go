// Package types contains shared domain types used across the CitOmni kernel
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/citomni/kernel/errors"
)

// Kind identifies which of the three composed artifacts is being handled
type Kind string

// Artifact kind constants
const (
	KindConfig   Kind = "config"
	KindRoutes   Kind = "routes"
	KindServices Kind = "services"
)

// Kinds lists every artifact kind in canonical order
func Kinds() []Kind {
	return []Kind{KindConfig, KindRoutes, KindServices}
}

// Validate ensures the kind is one of the three known artifact kinds
func (k Kind) Validate() error {
	switch k {
	case KindConfig, KindRoutes, KindServices:
		return nil
	default:
		return errors.WrapInvalid(errors.ErrUnknownKind, "Kind", "Validate",
			fmt.Sprintf("unknown artifact kind %q", string(k)))
	}
}

// Mode identifies one of the two execution universes. The two modes share
// nothing: an http artifact is never merged with, or read as, a cli artifact.
type Mode string

// Execution mode constants
const (
	ModeHTTP Mode = "http"
	ModeCLI  Mode = "cli"
)

// Modes lists every execution mode
func Modes() []Mode {
	return []Mode{ModeHTTP, ModeCLI}
}

// Validate ensures the mode is one of the two known execution modes
func (m Mode) Validate() error {
	switch m {
	case ModeHTTP, ModeCLI:
		return nil
	default:
		return errors.WrapInvalid(errors.ErrUnknownMode, "Mode", "Validate",
			fmt.Sprintf("unknown execution mode %q", string(m)))
	}
}

// CacheArtifact is the durable, directly loadable serialization of one
// composition result. Identity is the canonical handle (a file path for the
// filesystem store, an object name for the mirror) used both for loading and
// for signalling external bytecode-cache invalidation after a swap.
type CacheArtifact struct {
	Kind      Kind            `json:"kind"`
	Mode      Mode            `json:"mode"`
	Payload   json.RawMessage `json:"payload"`
	WrittenAt time.Time       `json:"written_at"`
	Identity  string          `json:"identity"`
}

// ArtifactName returns the canonical artifact name for a kind/mode pair,
// e.g. "routes.http.json". Six artifacts exist per application.
func ArtifactName(kind Kind, mode Mode) string {
	return fmt.Sprintf("%s.%s.json", kind, mode)
}
