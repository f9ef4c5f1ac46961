package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// ErrRegistrySealed is returned when registering after startup wiring finished.
var ErrRegistrySealed = errors.New("validation registry is sealed")

// ExtensionPoint names a slot rules of context type C are registered to.
type ExtensionPoint[C any] struct {
	name string
}

func NewExtensionPoint[C any](name string) ExtensionPoint[C] {
	return ExtensionPoint[C]{name: strings.TrimSpace(name)}
}

func (p ExtensionPoint[C]) Name() string   { return p.name }
func (p ExtensionPoint[C]) String() string { return p.name }

// Selector chooses which registrations apply: one store, or store independent.
type Selector struct {
	storeCode string
	any       bool
}

// ByStoreCode selects rules registered for exactly this store.
func ByStoreCode(code string) Selector {
	return Selector{storeCode: strings.TrimSpace(code)}
}

// Any selects rules registered independently of any store.
func Any() Selector {
	return Selector{any: true}
}

func (s Selector) IsAny() bool       { return s.any }
func (s Selector) StoreCode() string { return s.storeCode }

func (s Selector) String() string {
	if s.any {
		return "any"
	}
	return "store:" + s.storeCode
}

type registryKey struct {
	point    string
	selector Selector
}

// Registry maps (extension point, selector) to an ordered rule list.
//
// It is populated once during startup and sealed; after Seal, lookups read
// the maps without locking since nothing writes to them anymore.
type Registry struct {
	sealed     atomic.Bool
	entries    map[registryKey][]any
	pointTypes map[string]string
	order      []registryKey
}

func NewRegistry() *Registry {
	return &Registry{
		entries:    map[registryKey][]any{},
		pointTypes: map[string]string{},
	}
}

// Register appends rules to point under sel, preserving call order.
func Register[C any](r *Registry, point ExtensionPoint[C], sel Selector, rules ...Rule[C]) error {
	if r == nil {
		return errors.New("validation registry is nil")
	}
	if r.Sealed() {
		return ErrRegistrySealed
	}
	if point.name == "" {
		return errors.New("extension point name is empty")
	}
	if !sel.any && sel.storeCode == "" {
		return fmt.Errorf("extension point %q: store code is empty", point.name)
	}
	typeName := fmt.Sprintf("%T", point)
	if prev, ok := r.pointTypes[point.name]; ok && prev != typeName {
		return fmt.Errorf("extension point %q already registered as %s, not %s", point.name, prev, typeName)
	}
	r.pointTypes[point.name] = typeName

	key := registryKey{point: point.name, selector: sel}
	if _, ok := r.entries[key]; !ok {
		r.order = append(r.order, key)
		r.entries[key] = nil
	}
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		r.entries[key] = append(r.entries[key], rule)
	}
	return nil
}

// MustRegister is Register for static wiring code that cannot recover.
func MustRegister[C any](r *Registry, point ExtensionPoint[C], sel Selector, rules ...Rule[C]) {
	if err := Register(r, point, sel, rules...); err != nil {
		panic(err)
	}
}

// Lookup returns the rules registered for point under sel, in registration order.
func Lookup[C any](r *Registry, point ExtensionPoint[C], sel Selector) []Rule[C] {
	if r == nil {
		return nil
	}
	raw := r.entries[registryKey{point: point.name, selector: sel}]
	if len(raw) == 0 {
		return nil
	}
	out := make([]Rule[C], 0, len(raw))
	for _, v := range raw {
		if rule, ok := v.(Rule[C]); ok {
			out = append(out, rule)
		}
	}
	return out
}

// AggregateFor wraps Lookup in an Aggregate.
func AggregateFor[C any](r *Registry, point ExtensionPoint[C], sel Selector) *Aggregate[C] {
	return NewAggregate(Lookup(r, point, sel)...)
}

// Seal forbids further registration.
func (r *Registry) Seal() {
	if r != nil {
		r.sealed.Store(true)
	}
}

func (r *Registry) Sealed() bool {
	return r != nil && r.sealed.Load()
}

// Entry describes one (point, selector) registration for tooling.
type Entry struct {
	Point    string
	Selector Selector
	Rules    []string
}

// Entries lists registrations sorted by point then selector.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		names := make([]string, 0, len(r.entries[key]))
		for _, v := range r.entries[key] {
			name := NameOf(v)
			if name == "" {
				name = fmt.Sprintf("%T", v)
			}
			names = append(names, name)
		}
		out = append(out, Entry{Point: key.point, Selector: key.selector, Rules: names})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Point != out[j].Point {
			return out[i].Point < out[j].Point
		}
		return out[i].Selector.String() < out[j].Selector.String()
	})
	return out
}
