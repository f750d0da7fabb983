// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Field represents a tagged field of a struct type.
type Field struct {
	// Name is the name of the struct field.
	Name string

	// Index of the field in the struct.
	Index int

	// Tag is the name given in the field's "db" tag.
	Tag string

	// Type is the declared type of the field.
	Type reflect.Type

	// OmitEmpty is true when "omitempty" is
	// a property of the field's "db" tag.
	OmitEmpty bool
}

// StructInfo holds the tagged fields of a struct type.
type StructInfo struct {
	Type reflect.Type

	// Tags is the sorted list of tags on the struct.
	Tags []string

	tagToField map[string]*Field
}

// Lookup returns the field tagged with tag.
func (si *StructInfo) Lookup(tag string) (*Field, bool) {
	f, ok := si.tagToField[tag]
	return f, ok
}

var cacheMutex sync.RWMutex
var cache = make(map[reflect.Type]*StructInfo)

// GetStructInfo returns the StructInfo of struct type t, generating and
// caching it as required.
func GetStructInfo(t reflect.Type) (*StructInfo, error) {
	if t == nil {
		return nil, errors.New("cannot reflect nil type")
	}

	cacheMutex.RLock()
	info, found := cache[t]
	cacheMutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(t)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	cache[t] = info
	cacheMutex.Unlock()

	return info, nil
}

// generate produces the StructInfo for a struct type.
func generate(t reflect.Type) (*StructInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("need struct, got %s", t.Kind())
	}

	info := StructInfo{
		Type:       t,
		tagToField: make(map[string]*Field),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		// Fields without a "db" tag are not arguments.
		tag := f.Tag.Get("db")
		if tag == "" {
			continue
		}
		if !f.IsExported() {
			return nil, errors.Errorf("field %q of struct %s not exported", f.Name, t.Name())
		}
		tag, omitEmpty, err := parseTag(tag)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse tag for field %s.%s", t.Name(), f.Name)
		}
		if _, ok := info.tagToField[tag]; ok {
			return nil, errors.Errorf("db tag %q appears more than once in struct %s", tag, t.Name())
		}
		info.Tags = append(info.Tags, tag)
		info.tagToField[tag] = &Field{
			Name:      f.Name,
			Index:     i,
			Tag:       tag,
			Type:      f.Type,
			OmitEmpty: omitEmpty,
		}
	}
	sort.Strings(info.Tags)

	return &info, nil
}

var validColNameRx = regexp.MustCompile(`^([a-zA-Z_])+([a-zA-Z_0-9])*$`)

// parseTag parses the input tag string and returns its
// name and whether it contains the "omitempty" option.
func parseTag(tag string) (string, bool, error) {
	options := strings.Split(tag, ",")

	var omitEmpty bool
	if len(options) > 1 {
		for _, flag := range options[1:] {
			if flag == "omitempty" {
				omitEmpty = true
			} else {
				return "", omitEmpty, errors.Errorf("unsupported flag %q in tag %q", flag, tag)
			}
		}
	}

	name := options[0]
	if len(name) == 0 {
		return "", false, errors.New("empty db tag")
	}

	if !validColNameRx.MatchString(name) {
		return "", false, errors.Errorf("invalid column name in 'db' tag: %q", name)
	}

	return name, omitEmpty, nil
}
