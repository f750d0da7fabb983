// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind_test

import (
	"database/sql"
	"errors"
	"reflect"

	"github.com/shopspring/decimal"
	. "gopkg.in/check.v1"

	"github.com/canonical/sqlbind"
	"github.com/canonical/sqlbind/internal/targettest"
)

func find(c *C, f sqlbind.NamedArgumentFinder, name string) targettest.Call {
	b, err := f.Find(name)
	c.Assert(err, IsNil)
	var rec targettest.Recorder
	c.Assert(b.Apply(3, &rec, nil), IsNil)
	c.Assert(rec.Calls, HasLen, 1)
	return rec.Calls[0]
}

func (s *PackageSuite) TestMapArguments(c *C) {
	registry := sqlbind.NewRegistry()
	one := decimal.NewFromInt(1)

	args := sqlbind.NewMapArguments(registry, nil, map[string]any{"foo": one})
	call := find(c, args, "foo")
	c.Check(call.Method, Equals, "SetDecimal")
	c.Check(call.Position, Equals, 3)
	c.Check(call.Value.(decimal.Decimal).Equal(one), Equals, true)

	args = sqlbind.NewMapArguments(registry, nil, map[string]any{"foo": nil})
	call = find(c, args, "foo")
	c.Check(call, DeepEquals, targettest.Call{Method: "SetNull", Position: 3, Value: sqlbind.TypeNull})
}

func (s *PackageSuite) TestMapArgumentsWildcard(c *C) {
	registry := sqlbind.NewRegistry()
	args := sqlbind.NewMapArguments(registry, nil, sqlbind.M{
		"suit":   Hearts,
		"person": Person{ID: 1},
		"count":  int16(2),
	})

	c.Check(find(c, args, "suit").Value, Equals, "HEARTS")
	c.Check(find(c, args, "person").Method, Equals, "SetObject")
	c.Check(find(c, args, "count").Method, Equals, "SetShort")
}

func (s *PackageSuite) TestMapArgumentsMissing(c *C) {
	args := sqlbind.NewMapArguments(sqlbind.NewRegistry(), nil, sqlbind.M{"foo": 1})
	b, err := args.Find("bar")
	c.Check(b, IsNil)
	c.Check(err, ErrorMatches, `missing named parameter "bar"`)
	c.Check(errors.Is(err, sqlbind.ErrMissingName), Equals, true)

	args = sqlbind.NewMapArguments(sqlbind.NewRegistry(), nil, nil)
	_, err = args.Find("foo")
	c.Check(errors.Is(err, sqlbind.ErrMissingName), Equals, true)
}

func (s *PackageSuite) TestMapArgumentsUseRegistry(c *C) {
	registry := sqlbind.NewRegistry()
	registry.Register(&stubResolver{name: "person", accept: acceptValue(reflect.TypeFor[Person]())})
	args := sqlbind.NewMapArguments(registry, nil, sqlbind.M{"p": Person{}})
	c.Check(find(c, args, "p").Value, Equals, "person")
}

func (s *PackageSuite) TestStructArguments(c *C) {
	registry := sqlbind.NewRegistry()
	code := int32(1000)
	args, err := sqlbind.NewStructArguments(registry, nil, Person{ID: 30, Fullname: "Fred", PostalCode: &code})
	c.Assert(err, IsNil)
	c.Check(args.Names(), DeepEquals, []string{"address_id", "email", "id", "name"})

	c.Check(find(c, args, "id"), DeepEquals, targettest.Call{Method: "SetLong", Position: 3, Value: int64(30)})
	c.Check(find(c, args, "name"), DeepEquals, targettest.Call{Method: "SetString", Position: 3, Value: "Fred"})
	c.Check(find(c, args, "address_id"), DeepEquals, targettest.Call{Method: "SetInt", Position: 3, Value: int32(1000)})
	// Zero omitempty fields bind NULL of the field type.
	c.Check(find(c, args, "email"), DeepEquals, targettest.Call{Method: "SetNull", Position: 3, Value: sqlbind.TypeVarchar})

	_, err = args.Find("team")
	c.Check(err, ErrorMatches, `missing named parameter "team"`)
}

func (s *PackageSuite) TestStructArgumentsNilPointerField(c *C) {
	args, err := sqlbind.NewStructArguments(sqlbind.NewRegistry(), nil, &Person{ID: 30})
	c.Assert(err, IsNil)
	c.Check(find(c, args, "address_id"), DeepEquals, targettest.Call{Method: "SetNull", Position: 3, Value: sqlbind.TypeInteger})
}

func (s *PackageSuite) TestStructArgumentsDeclaredEnum(c *C) {
	type Card struct {
		Suit Suit `db:"suit"`
		Any  any  `db:"any"`
	}
	args, err := sqlbind.NewStructArguments(sqlbind.NewRegistry(), nil, Card{Suit: Hearts, Any: Hearts})
	c.Assert(err, IsNil)
	// The field declares the enumeration type.
	c.Check(find(c, args, "suit").Value, Equals, "hearts suit")
	// The field declares no type.
	c.Check(find(c, args, "any").Value, Equals, "HEARTS")
}

// Rank is an enumeration without a String method.
type Rank int

func (Rank) EnumName() string { return "RANK" }

func (s *PackageSuite) TestStructArgumentsEnumPointer(c *C) {
	type Card struct {
		Rank    *Rank `db:"rank"`
		Suit    *Suit `db:"suit"`
		Missing *Rank `db:"missing"`
	}
	rank, suit := Rank(7), Hearts
	args, err := sqlbind.NewStructArguments(sqlbind.NewRegistry(), nil, Card{Rank: &rank, Suit: &suit})
	c.Assert(err, IsNil)
	c.Check(find(c, args, "rank"), DeepEquals, targettest.Call{Method: "SetString", Position: 3, Value: "7"})
	c.Check(find(c, args, "suit"), DeepEquals, targettest.Call{Method: "SetString", Position: 3, Value: "hearts suit"})
	c.Check(find(c, args, "missing"), DeepEquals, targettest.Call{Method: "SetNull", Position: 3, Value: sqlbind.TypeVarchar})

	named, err := sqlbind.NamedArgs(args, nil, "rank")
	c.Assert(err, IsNil)
	c.Check(named, DeepEquals, []any{sql.Named("rank", "7")})
}

func (s *PackageSuite) TestArgumentsNilRegistry(c *C) {
	margs := sqlbind.NewMapArguments(nil, nil, sqlbind.M{"id": 30})
	c.Check(find(c, margs, "id"), DeepEquals, targettest.Call{Method: "SetLong", Position: 3, Value: int64(30)})

	sargs, err := sqlbind.NewStructArguments(nil, nil, Person{ID: 30})
	c.Assert(err, IsNil)
	c.Check(find(c, sargs, "id"), DeepEquals, targettest.Call{Method: "SetLong", Position: 3, Value: int64(30)})

	f, err := sqlbind.NewArguments(nil, nil, map[string]any{"name": "Fred"})
	c.Assert(err, IsNil)
	c.Check(find(c, f, "name"), DeepEquals, targettest.Call{Method: "SetString", Position: 3, Value: "Fred"})
}

func (s *PackageSuite) TestStructArgumentsInvalid(c *C) {
	registry := sqlbind.NewRegistry()
	tests := []struct {
		arg any
		err string
	}{
		{nil, "need struct or map, got nil"},
		{5, "need struct or map, got int"},
		{(*Person)(nil), "need struct or map, got nil"},
		{new(int), "need struct or map, got pointer to int"},
		{[]Person{}, "need struct or map, got slice"},
	}
	for i, t := range tests {
		_, err := sqlbind.NewStructArguments(registry, nil, t.arg)
		c.Check(err, ErrorMatches, t.err, Commentf("test %d failed", i))
	}

	_, err := sqlbind.NewStructArguments(registry, nil, map[string]any{})
	c.Check(err, ErrorMatches, "need struct, got map.*")
}

func (s *PackageSuite) TestNewArguments(c *C) {
	registry := sqlbind.NewRegistry()

	f, err := sqlbind.NewArguments(registry, nil, sqlbind.M{"a": 1})
	c.Assert(err, IsNil)
	c.Check(find(c, f, "a").Method, Equals, "SetLong")

	f, err = sqlbind.NewArguments(registry, nil, map[string]any{"a": "x"})
	c.Assert(err, IsNil)
	c.Check(find(c, f, "a").Method, Equals, "SetString")

	type StrMap map[string]int16
	f, err = sqlbind.NewArguments(registry, nil, StrMap{"a": 2})
	c.Assert(err, IsNil)
	c.Check(find(c, f, "a"), DeepEquals, targettest.Call{Method: "SetShort", Position: 3, Value: int16(2)})

	f, err = sqlbind.NewArguments(registry, nil, &Person{ID: 4})
	c.Assert(err, IsNil)
	c.Check(find(c, f, "id").Value, Equals, int64(4))

	_, err = sqlbind.NewArguments(registry, nil, map[int]any{})
	c.Check(err, ErrorMatches, "map type map\\[int\\]interface \\{\\} must have key type string, found type int")
}
