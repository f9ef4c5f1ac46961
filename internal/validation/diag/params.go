package diag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Param is one structured parameter referenced by a diagnostic ID.
type Param struct {
	Key   string
	Value string
}

func P(key, value string) Param { return Param{Key: key, Value: value} }

// Params is an ordered string mapping. Keys are unique; order is insertion order.
type Params []Param

func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// With returns a copy with key set, keeping the position of an existing key.
func (p Params) With(key, value string) Params {
	out := p.clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Key: key, Value: value})
}

func (p Params) Equal(o Params) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for _, kv := range p {
		parts = append(parts, kv.Key+"="+kv.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON writes an object whose member order follows p.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object preserving member order.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("diag params: expected object, got %v", tok)
	}
	var out Params
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("diag params: expected string key, got %v", kt)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("diag params: value for %q: %w", key, err)
		}
		out = out.With(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

func (p Params) clone() Params {
	if len(p) == 0 {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}
