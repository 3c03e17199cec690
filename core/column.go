package core

import (
	"strconv"
	"strings"
	"time"
)

// DataType names the SQL-surface column types.
type DataType string

const (
	IntType       DataType = "INT"
	VarcharType   DataType = "VARCHAR"
	FloatType     DataType = "FLOAT"
	BoolType      DataType = "BOOLEAN"
	TimestampType DataType = "DATETIME"
)

// ParseDataType maps an uppercased SQL type keyword to its DataType.
func ParseDataType(name string) (DataType, bool) {
	switch DataType(strings.ToUpper(name)) {
	case IntType:
		return IntType, true
	case VarcharType:
		return VarcharType, true
	case FloatType:
		return FloatType, true
	case BoolType:
		return BoolType, true
	case TimestampType:
		return TimestampType, true
	}
	return "", false
}

// timestampLayouts are tried in order when converting text to DATETIME.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02",
	"2006-01-02T15:04:05",
}

// boolWords are the text forms accepted as true for BOOLEAN columns.
var boolWords = map[string]bool{"true": true, "1": true, "yes": true, "t": true}

type Column struct {
	Name       string   `json:"name"`
	Type       DataType `json:"data_type"`
	Length     int      `json:"length,omitempty"`
	Nullable   bool     `json:"nullable"`
	PrimaryKey bool     `json:"primary_key"`
	Unique     bool     `json:"unique"`
	Default    Value    `json:"default"`
}

// Convert coerces a value into this column's type. NULL passes through
// untouched; NULL handling belongs to Validate.
func (column Column) Convert(value Value) (Value, error) {
	if value.IsNull() {
		return value, nil
	}

	switch column.Type {
	case IntType:
		return column.convertInt(value)
	case FloatType:
		return column.convertFloat(value)
	case VarcharType:
		return NewText(value.String()), nil
	case BoolType:
		return column.convertBool(value), nil
	case TimestampType:
		return column.convertTimestamp(value)
	}
	return value, nil
}

func (column Column) convertInt(value Value) (Value, error) {
	switch value.Type {
	case IntValue:
		return value, nil
	case FloatValue:
		return NewInt(int64(value.Float)), nil
	case BoolValue:
		if value.Bool {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	case TextValue:
		n, err := strconv.ParseInt(strings.TrimSpace(value.Text), 10, 64)
		if err != nil {
			return Null(), NewConstraintError("cannot convert '%s' to INT for column '%s'", value.Text, column.Name)
		}
		return NewInt(n), nil
	}
	return Null(), NewConstraintError("cannot convert %s to INT for column '%s'", value.Type, column.Name)
}

func (column Column) convertFloat(value Value) (Value, error) {
	switch value.Type {
	case FloatValue:
		return value, nil
	case IntValue:
		return NewFloat(float64(value.Int)), nil
	case BoolValue:
		if value.Bool {
			return NewFloat(1), nil
		}
		return NewFloat(0), nil
	case TextValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(value.Text), 64)
		if err != nil {
			return Null(), NewConstraintError("cannot convert '%s' to FLOAT for column '%s'", value.Text, column.Name)
		}
		return NewFloat(f), nil
	}
	return Null(), NewConstraintError("cannot convert %s to FLOAT for column '%s'", value.Type, column.Name)
}

func (column Column) convertBool(value Value) Value {
	switch value.Type {
	case BoolValue:
		return value
	case TextValue:
		return NewBool(boolWords[strings.ToLower(value.Text)])
	case IntValue:
		return NewBool(value.Int != 0)
	case FloatValue:
		return NewBool(value.Float != 0)
	default:
		// Any remaining non-null value is truthy.
		return NewBool(true)
	}
}

func (column Column) convertTimestamp(value Value) (Value, error) {
	switch value.Type {
	case TimestampValue:
		return value, nil
	case TextValue:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, value.Text); err == nil {
				return NewTimestamp(ts), nil
			}
		}
		return Null(), NewConstraintError("cannot parse datetime '%s' for column '%s'", value.Text, column.Name)
	}
	return Null(), NewConstraintError("invalid DATETIME value for column '%s'", column.Name)
}

// Validate checks a value against the column's type and constraints.
// PRIMARY KEY columns are implicitly NOT NULL regardless of Nullable.
func (column Column) Validate(value Value) error {
	if value.IsNull() {
		if !column.Nullable || column.PrimaryKey {
			return NewConstraintError("column '%s' cannot be NULL", column.Name)
		}
		return nil
	}

	converted, err := column.Convert(value)
	if err != nil {
		return err
	}

	if column.Type == VarcharType && column.Length > 0 {
		if len(converted.Text) > column.Length {
			return NewConstraintError("value exceeds maximum length %d for column '%s'", column.Length, column.Name)
		}
	}

	return nil
}

func (column Column) String() string {
	var sb strings.Builder
	sb.WriteString(column.Name)
	sb.WriteByte(' ')
	sb.WriteString(string(column.Type))
	if column.Type == VarcharType && column.Length > 0 {
		sb.WriteString("(" + strconv.Itoa(column.Length) + ")")
	}
	if column.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if column.Unique {
		sb.WriteString(" UNIQUE")
	}
	if !column.Nullable {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}
