// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbind

import (
	"bytes"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Any is the wildcard expected type. Resolving against Any means the
// statement declares no parameter type and the binding is chosen from the
// value itself.
var Any = reflect.TypeFor[any]()

// SQLType is a SQL type code. Bindings use it when the value is NULL so that
// the target can bind a typed NULL. The values are the JDBC type codes.
type SQLType int

const (
	TypeNull      SQLType = 0
	TypeChar      SQLType = 1
	TypeNumeric   SQLType = 2
	TypeInteger   SQLType = 4
	TypeSmallInt  SQLType = 5
	TypeFloat     SQLType = 6
	TypeDouble    SQLType = 8
	TypeVarchar   SQLType = 12
	TypeBoolean   SQLType = 16
	TypeDatalink  SQLType = 70
	TypeDate      SQLType = 91
	TypeTime      SQLType = 92
	TypeTimestamp SQLType = 93
	TypeVarbinary SQLType = -3
	TypeTinyInt   SQLType = -6
	TypeBlob      SQLType = 2004
	TypeClob      SQLType = 2005
)

var sqlTypeNames = map[SQLType]string{
	TypeNull:      "NULL",
	TypeChar:      "CHAR",
	TypeNumeric:   "NUMERIC",
	TypeInteger:   "INTEGER",
	TypeSmallInt:  "SMALLINT",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeVarchar:   "VARCHAR",
	TypeBoolean:   "BOOLEAN",
	TypeDatalink:  "DATALINK",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeTimestamp: "TIMESTAMP",
	TypeVarbinary: "VARBINARY",
	TypeTinyInt:   "TINYINT",
	TypeBlob:      "BLOB",
	TypeClob:      "CLOB",
}

func (t SQLType) String() string {
	if name, ok := sqlTypeNames[t]; ok {
		return name
	}
	return "SQLType(" + strconv.Itoa(int(t)) + ")"
}

// Kind identifies the Target setter used by a BuiltinBinding.
type Kind uint8

const (
	KindObject Kind = iota
	KindString
	KindBool
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindDecimal
	KindBytes
	KindDate
	KindTime
	KindTimestamp
	KindBlob
	KindClob
	KindURL
)

var kindNames = []string{
	KindObject:    "object",
	KindString:    "string",
	KindBool:      "bool",
	KindByte:      "byte",
	KindShort:     "short",
	KindInt:       "int",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindDecimal:   "decimal",
	KindBytes:     "bytes",
	KindDate:      "date",
	KindTime:      "time",
	KindTimestamp: "timestamp",
	KindBlob:      "blob",
	KindClob:      "clob",
	KindURL:       "url",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Char is a single character. It is bound as a one character string.
type Char rune

// Date is a SQL DATE value. Only the date part of the embedded time is
// meaningful.
type Date struct {
	time.Time
}

// Time is a SQL TIME value. Only the time of day of the embedded time is
// meaningful.
type Time struct {
	time.Time
}

// Timestamp is a SQL TIMESTAMP value.
type Timestamp struct {
	time.Time
}

// Enum is implemented by enumeration types.
//
// EnumName returns the symbolic name of the constant. When a value is bound
// without a declared parameter type its EnumName is used. When the
// parameter is declared with the enumeration type the value's general
// string conversion (fmt.Sprint) is used instead, which differs from
// EnumName for types with a String method.
type Enum interface {
	EnumName() string
}

// Blob is a handle on binary large object content.
type Blob interface {
	// Length returns the number of bytes in the object.
	Length() (int64, error)
	// BinaryStream returns a reader over the content.
	BinaryStream() (io.Reader, error)
}

// Clob is a handle on character large object content.
type Clob interface {
	// Length returns the number of characters in the object.
	Length() (int64, error)
	// CharacterStream returns a reader over the UTF-8 encoded content.
	CharacterStream() (io.Reader, error)
}

// NewBlob returns a Blob over an in-memory byte slice.
func NewBlob(b []byte) Blob {
	return memBlob(b)
}

// NewClob returns a Clob over an in-memory string.
func NewClob(s string) Clob {
	return memClob(s)
}

type memBlob []byte

func (b memBlob) Length() (int64, error) {
	return int64(len(b)), nil
}

func (b memBlob) BinaryStream() (io.Reader, error) {
	return bytes.NewReader(b), nil
}

type memClob string

func (c memClob) Length() (int64, error) {
	return int64(len([]rune(string(c)))), nil
}

func (c memClob) CharacterStream() (io.Reader, error) {
	return strings.NewReader(string(c)), nil
}

var (
	enumInterface = reflect.TypeFor[Enum]()
	blobInterface = reflect.TypeFor[Blob]()
	clobInterface = reflect.TypeFor[Clob]()
)

// isNull reports whether v is nil or a typed nil.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isEnumType reports whether t is an enumeration type.
func isEnumType(t reflect.Type) bool {
	return t != nil && t.Implements(enumInterface)
}
