package result

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/planweave/planweave/pkg/engine"
)

// Style selects how a result is rendered.
type Style string

const (
	// Structured returns the canonical payload unchanged.
	Structured Style = "structured"
	// HumanReadable produces a prose description for transcript display.
	HumanReadable Style = "human-readable"
	// Condensed truncates large payloads, noting that truncation occurred.
	Condensed Style = "condensed"
)

const truncationNote = "... [output truncated]"

// DefaultCondensedLimit bounds condensed payload size in bytes.
const DefaultCondensedLimit = 10 * 1024

// Normalizer converts raw tool output into the uniform payload shape and
// renders result envelopes. All methods are pure.
type Normalizer struct {
	// CondensedLimit is the byte budget for the condensed style; zero means
	// DefaultCondensedLimit.
	CondensedLimit int
}

// NewNormalizer returns a Normalizer with default limits.
func NewNormalizer() *Normalizer {
	return &Normalizer{CondensedLimit: DefaultCondensedLimit}
}

// Normalize converts raw tool output into a canonical value tree of
// primitives, mappings, and sequences. Tool-specific shapes survive inside
// the tree; they are not flattened. Non-serializable values degrade to their
// string form rather than failing the call.
func (n *Normalizer) Normalize(raw interface{}) interface{} {
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	var tree interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return tree
}

// Format renders one result in the requested style. Structured returns the
// payload unchanged; HumanReadable and Condensed return strings.
func (n *Normalizer) Format(r engine.Result, style Style) (interface{}, error) {
	switch style {
	case Structured:
		return r.Payload, nil
	case HumanReadable:
		return n.describe(r), nil
	case Condensed:
		text, _ := n.Condense(r.Payload)
		return text, nil
	default:
		return nil, fmt.Errorf("unknown format style: %s", style)
	}
}

// describe builds a one-line prose summary of the outcome.
func (n *Normalizer) describe(r engine.Result) string {
	elapsed := r.Elapsed.Round(time.Millisecond)
	switch r.Status {
	case engine.StatusSuccess:
		if r.Retries > 0 {
			return fmt.Sprintf("%s succeeded in %s after %d retries", r.Tool, elapsed, r.Retries)
		}
		return fmt.Sprintf("%s succeeded in %s", r.Tool, elapsed)
	case engine.StatusTimeout:
		return fmt.Sprintf("%s timed out after %s (%d retries)", r.Tool, elapsed, r.Retries)
	default:
		msg := "unknown error"
		if r.Error != nil {
			msg = fmt.Sprintf("%s: %s", r.Error.Kind, r.Error.Message)
		}
		return fmt.Sprintf("%s failed after %d retries (%s)", r.Tool, r.Retries, msg)
	}
}

// Condense renders the payload as JSON and truncates it past the limit,
// keeping a note that truncation happened. The second return reports whether
// the payload was cut.
func (n *Normalizer) Condense(payload interface{}) (string, bool) {
	limit := n.CondensedLimit
	if limit <= 0 {
		limit = DefaultCondensedLimit
	}

	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", payload))
	}
	if len(data) <= limit {
		return string(data), false
	}
	return string(data[:limit]) + "\n" + truncationNote, true
}
