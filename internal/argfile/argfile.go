// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package argfile reads named statement arguments from YAML files and
// command line flags.
//
// An argument file holds an args mapping. Plain scalars are decoded as
// int64, float64, bool, string or nil. A mapping with type and value keys
// selects a specific Go type:
//
//	args:
//	  id: 30
//	  name: Fred
//	  salary: {type: decimal, value: "1250.50"}
//	  joined: {type: date, value: 2021-03-01}
//
// Flags have the form name=value or name:type=value.
package argfile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/canonical/sqlbind"
)

// Layouts used by the date, time and timestamp types.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = time.RFC3339Nano
)

// Set is an ordered collection of named arguments.
type Set struct {
	names  []string
	values map[string]any
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{values: map[string]any{}}
}

// Names returns the argument names in the order they were first added.
func (s *Set) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Map returns the arguments keyed by name.
func (s *Set) Map() map[string]any {
	m := make(map[string]any, len(s.values))
	for k, v := range s.values {
		m[k] = v
	}
	return m
}

// Len returns the number of arguments.
func (s *Set) Len() int {
	return len(s.names)
}

// Set adds the argument or replaces its value.
func (s *Set) Set(name string, value any) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

type document struct {
	Args yaml.Node `yaml:"args"`
}

// Decode reads an argument file from r.
func Decode(r io.Reader) (*Set, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot decode argument file: %w", err)
	}
	s := NewSet()
	if doc.Args.Kind == 0 {
		return s, nil
	}
	if doc.Args.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: args must be a mapping", doc.Args.Line)
	}
	content := doc.Args.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, node := content[i], content[i+1]
		if key.Value == "" {
			return nil, fmt.Errorf("line %d: empty argument name", key.Line)
		}
		v, err := decodeNode(node)
		if err != nil {
			return nil, fmt.Errorf("line %d: argument %q: %w", node.Line, key.Value, err)
		}
		s.Set(key.Value, v)
	}
	return s, nil
}

// ReadFile reads the argument file at path.
func ReadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)
	case yaml.MappingNode:
		var typed struct {
			Type  string    `yaml:"type"`
			Value yaml.Node `yaml:"value"`
		}
		if err := node.Decode(&typed); err != nil {
			return nil, err
		}
		if typed.Type == "" {
			return nil, errors.New("typed argument needs a type")
		}
		if typed.Value.Kind == 0 || typed.Value.ShortTag() == "!!null" {
			return nil, nil
		}
		if typed.Value.Kind != yaml.ScalarNode {
			return nil, errors.New("typed argument value must be a scalar")
		}
		return ParseValue(typed.Type, typed.Value.Value)
	}
	return nil, errors.New("argument must be a scalar or a typed mapping")
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!int":
		var v int64
		err := node.Decode(&v)
		return v, err
	case "!!float":
		var v float64
		err := node.Decode(&v)
		return v, err
	case "!!bool":
		var v bool
		err := node.Decode(&v)
		return v, err
	}
	return node.Value, nil
}

type parser func(s string) (any, error)

var parsers = map[string]parser{
	"string": func(s string) (any, error) { return s, nil },
	"int": func(s string) (any, error) {
		return strconv.ParseInt(s, 10, 64)
	},
	"float": func(s string) (any, error) {
		return strconv.ParseFloat(s, 64)
	},
	"bool": func(s string) (any, error) {
		return strconv.ParseBool(s)
	},
	"decimal": func(s string) (any, error) {
		return decimal.NewFromString(s)
	},
	"date": func(s string) (any, error) {
		t, err := time.Parse(DateLayout, s)
		return sqlbind.Date{Time: t}, err
	},
	"time": func(s string) (any, error) {
		t, err := time.Parse(TimeLayout, s)
		return sqlbind.Time{Time: t}, err
	},
	"timestamp": func(s string) (any, error) {
		t, err := time.Parse(TimestampLayout, s)
		return sqlbind.Timestamp{Time: t}, err
	},
	"uuid": func(s string) (any, error) {
		return uuid.Parse(s)
	},
	"url": func(s string) (any, error) {
		return url.Parse(s)
	},
	"bytes": func(s string) (any, error) {
		return base64.StdEncoding.DecodeString(s)
	},
	"char": func(s string) (any, error) {
		if utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("char needs exactly one character, got %q", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return sqlbind.Char(r), nil
	},
}

// Types returns the names of the supported argument types in sorted order.
func Types() []string {
	types := make([]string, 0, len(parsers))
	for t := range parsers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ParseValue parses s as an argument of the named type.
func ParseValue(typ, s string) (any, error) {
	p, ok := parsers[typ]
	if !ok {
		return nil, fmt.Errorf("unknown argument type %q", typ)
	}
	v, err := p(s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as %s: %w", s, typ, err)
	}
	return v, nil
}

// ParseFlag parses an argument of the form name=value or name:type=value.
// Untyped values are decoded as YAML scalars.
func ParseFlag(arg string) (name string, value any, err error) {
	lhs, rhs, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("argument %q: expected name=value", arg)
	}
	name, typ, typed := strings.Cut(lhs, ":")
	if name == "" {
		return "", nil, fmt.Errorf("argument %q: empty name", arg)
	}
	if typed {
		value, err = ParseValue(typ, rhs)
	} else {
		value, err = decodeFlagValue(rhs)
	}
	if err != nil {
		return "", nil, fmt.Errorf("argument %q: %w", name, err)
	}
	return name, value, nil
}

func decodeFlagValue(raw string) (any, error) {
	var doc yaml.Node
	// Anything that is not a single YAML scalar is taken literally.
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return raw, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.ScalarNode {
		return raw, nil
	}
	return decodeScalar(doc.Content[0])
}

// AddFlags parses each flag and adds it to s.
func (s *Set) AddFlags(flags []string) error {
	for _, f := range flags {
		name, value, err := ParseFlag(f)
		if err != nil {
			return err
		}
		s.Set(name, value)
	}
	return nil
}
