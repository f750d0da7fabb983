// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package typeinfo contains the reflection code used to read named arguments
out of structs and maps. As much as possible, reflection over argument
containers is limited to this package. It validates argument values, parses
their "db" struct tags and locates the value bound to a name.
*/
package typeinfo
