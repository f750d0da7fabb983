// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package sqlbind turns Go values into bindings for the positional parameters of
a prepared SQL statement.

A Binding knows how to set one statement parameter. It is produced by a
Resolver from a value and the type the parameter is declared to have. When
the declared type is unknown, such as for values taken from a map, the
wildcard type Any is used and the binding is chosen from the value itself.

# Basics

Bindings for the common Go types are built with Build:

	b, err := sqlbind.Build(int32(10))
	if err != nil {
		return err
	}
	args, err := sqlbind.Args(nil, b)
	// args is []any{int32(10)}

Resolving against a declared type binds NULL with the SQL type of the
declaration:

	b, err := sqlbind.NewRegistry().Resolve(reflect.TypeFor[*int32](), nil, nil)
	// b binds NULL as INTEGER

# Built-in types

The built-in table covers string, bool, byte, int16, int32, int64, int,
float32, float64, decimal.Decimal, []byte, Char, time.Time, Date, Time,
Timestamp, *url.URL, Blob and Clob. Pointers to the scalar types are bound the
same way as the types they point to, with nil pointers binding NULL.

Values whose type implements Enum are bound as VARCHAR. When the declared type
is Any the value's EnumName is bound. When the declared type is the
enumeration type itself fmt.Sprint of the value is bound instead.

Anything else is bound with Target.SetObject and left for the target to
handle.

# Resolvers

A Registry holds user resolvers in front of the built-in table:

	registry := sqlbind.NewRegistry()
	registry.Register(myResolver)

The resolver registered last is tried first. The first resolver whose Accepts
returns true builds the binding. The built-in table accepts anything, so
Resolve always returns a binding unless Build fails.

# Named arguments

MapArguments and StructArguments find bindings by parameter name, from a map
or from the fields of a struct tagged with `db:"name"`:

	type Person struct {
		ID   int    `db:"id"`
		Name string `db:"name,omitempty"`
	}

	args, err := sqlbind.NewArguments(registry, nil, Person{ID: 30})
	b, err := args.Find("name") // binds NULL as VARCHAR
*/
package sqlbind
