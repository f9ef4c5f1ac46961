// Package diag defines the structured result of a validation rule.
//
// A Diagnostic is a value: rules create it, the pipeline concatenates it and
// an external formatter turns ID + Data into localized text.
package diag

import (
	"fmt"
	"strings"
)

// Kind separates hard failures from recoverable, incomplete-input conditions.
type Kind string

const (
	KindError    Kind = "ERROR"
	KindNeedInfo Kind = "NEED_INFO"
)

// Resolution points a client at the resource it has to fix.
type Resolution struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

type Diagnostic struct {
	Kind         Kind        `json:"kind"`
	ID           string      `json:"id"`
	DebugMessage string      `json:"debug_message"`
	Data         Params      `json:"data"`
	Resolution   *Resolution `json:"resolution,omitempty"`
}

func New(kind Kind, id, debugMessage string, data ...Param) Diagnostic {
	var params Params
	for _, kv := range data {
		params = params.With(kv.Key, kv.Value)
	}
	return Diagnostic{
		Kind:         kind,
		ID:           id,
		DebugMessage: debugMessage,
		Data:         params,
	}
}

func Error(id, debugMessage string, data ...Param) Diagnostic {
	return New(KindError, id, debugMessage, data...)
}

func NeedInfo(id, debugMessage string, data ...Param) Diagnostic {
	return New(KindNeedInfo, id, debugMessage, data...)
}

// WithResolution returns a copy pointing at entityType/entityID.
func (d Diagnostic) WithResolution(entityType, entityID string) Diagnostic {
	d.Data = d.Data.clone()
	d.Resolution = &Resolution{EntityType: entityType, EntityID: entityID}
	return d
}

// Equal reports whether every field of d and o is equal.
func (d Diagnostic) Equal(o Diagnostic) bool {
	if d.Kind != o.Kind || d.ID != o.ID || d.DebugMessage != o.DebugMessage {
		return false
	}
	if !d.Data.Equal(o.Data) {
		return false
	}
	switch {
	case d.Resolution == nil && o.Resolution == nil:
		return true
	case d.Resolution == nil || o.Resolution == nil:
		return false
	default:
		return *d.Resolution == *o.Resolution
	}
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", d.Kind, d.ID)
	if len(d.Data) > 0 {
		b.WriteString(" ")
		b.WriteString(d.Data.String())
	}
	if d.DebugMessage != "" {
		b.WriteString(": ")
		b.WriteString(d.DebugMessage)
	}
	return b.String()
}

// HasErrors reports whether any diagnostic is of kind ERROR.
func HasErrors(ds []Diagnostic) bool {
	for i := range ds {
		if ds[i].Kind == KindError {
			return true
		}
	}
	return false
}

// IDs lists diagnostic identifiers in order; handy for logs and metrics.
func IDs(ds []Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for i := range ds {
		out = append(out, ds[i].ID)
	}
	return out
}
