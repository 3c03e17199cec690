// Package core provides the scalar value domain and schema types shared by
// every layer of the engine.
//
// # Values
//
// Value is an exhaustive tagged union over the storable types:
//
//	v := core.NewInt(42)
//	w := core.NewText("hello")
//	core.Less(v, core.NewFloat(42.5)) // true, ints and floats interoperate
//
// # Columns
//
// Column carries a name, a DataType, and constraints, and owns the
// conversion and validation rules applied to incoming values:
//
//	col := core.Column{Name: "name", Type: core.VarcharType, Length: 10}
//	v, err := col.Convert(core.NewInt(7)) // Text("7")
//	err = col.Validate(core.Null())       // nil, column is nullable
//
// # Errors
//
// The four error kinds (SyntaxError, SchemaError, ConstraintError,
// ExecutionError) partition everything the engine can report.
package core
