package app

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/cartcheck/internal/cartvalidation/rules"
	"github.com/yungbote/cartcheck/internal/validation"
)

//go:embed default_profile.yaml
var defaultProfile []byte

// RuleProfile maps extension points to ordered rule names.
type RuleProfile struct {
	Defaults map[string][]string            `yaml:"defaults"`
	Stores   map[string]map[string][]string `yaml:"stores"`
	Any      map[string][]string            `yaml:"any"`
}

// LoadRuleProfile reads the profile at path, or the built-in one when path is empty.
func LoadRuleProfile(path string) (*RuleProfile, error) {
	raw := defaultProfile
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rule profile: %w", err)
		}
		raw = b
	}
	return ParseRuleProfile(raw)
}

func ParseRuleProfile(raw []byte) (*RuleProfile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var p RuleProfile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse rule profile: %w", err)
	}
	return &p, nil
}

// Apply registers the profile for storeCodes plus every store named in the
// profile. A store block replaces the defaults point by point.
func (p *RuleProfile) Apply(reg *validation.Registry, catalog *rules.Catalog, storeCodes []string) error {
	codes := map[string]struct{}{}
	for _, c := range storeCodes {
		codes[c] = struct{}{}
	}
	for c := range p.Stores {
		codes[c] = struct{}{}
	}
	for _, code := range sortedKeys(codes) {
		points := map[string][]string{}
		for point, names := range p.Defaults {
			points[point] = names
		}
		for point, names := range p.Stores[code] {
			points[point] = names
		}
		if err := registerPoints(reg, catalog, validation.ByStoreCode(code), points); err != nil {
			return fmt.Errorf("store %s: %w", code, err)
		}
	}
	if err := registerPoints(reg, catalog, validation.Any(), p.Any); err != nil {
		return fmt.Errorf("any: %w", err)
	}
	return nil
}

func registerPoints(reg *validation.Registry, catalog *rules.Catalog, sel validation.Selector, points map[string][]string) error {
	for _, point := range sortedKeys(points) {
		names := points[point]
		if len(names) == 0 {
			continue
		}
		if err := catalog.Register(reg, point, sel, names); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
