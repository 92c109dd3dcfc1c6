package memtable

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

type typeKind uint8

const (
	typeString typeKind = iota
	typeDateTime
	typeDateTimeLayout
	typeDateLayout
	typeTimeLayout
	typeNumber
	typeInteger
	typeFloat
	typeEmpty
)

// ValueType declares how a raw field string is parsed
// when a schema is supplied instead of type inference.
// The zero value is TypeString.
type ValueType struct {
	kind   typeKind
	layout string
}

// TypeString declares fields that are used verbatim as KindString values.
func TypeString() ValueType {
	return ValueType{kind: typeString}
}

// TypeDateTime declares KindDateTime fields
// parsed with format detection.
func TypeDateTime() ValueType {
	return ValueType{kind: typeDateTime}
}

// TypeDateTimeLayout declares KindDateTime fields
// parsed with a time.Parse layout.
func TypeDateTimeLayout(layout string) ValueType {
	return ValueType{kind: typeDateTimeLayout, layout: layout}
}

// TypeDateLayout declares KindDate fields
// parsed with a time.Parse layout.
func TypeDateLayout(layout string) ValueType {
	return ValueType{kind: typeDateLayout, layout: layout}
}

// TypeTimeLayout declares KindTime fields
// parsed with a time.Parse layout.
func TypeTimeLayout(layout string) ValueType {
	return ValueType{kind: typeTimeLayout, layout: layout}
}

// TypeNumber declares numeric fields that are parsed
// as KindFloat if possible and as KindInteger otherwise.
func TypeNumber() ValueType {
	return ValueType{kind: typeNumber}
}

// TypeInteger declares KindInteger fields.
func TypeInteger() ValueType {
	return ValueType{kind: typeInteger}
}

// TypeFloat declares KindFloat fields.
func TypeFloat() ValueType {
	return ValueType{kind: typeFloat}
}

// TypeEmpty declares fields that always yield KindEmpty,
// regardless of their raw content.
func TypeEmpty() ValueType {
	return ValueType{kind: typeEmpty}
}

// String implements the fmt.Stringer interface.
func (t ValueType) String() string {
	switch t.kind {
	case typeString:
		return "String"
	case typeDateTime:
		return "DateTime"
	case typeDateTimeLayout:
		return "DateTime(" + t.layout + ")"
	case typeDateLayout:
		return "Date(" + t.layout + ")"
	case typeTimeLayout:
		return "Time(" + t.layout + ")"
	case typeNumber:
		return "Number"
	case typeInteger:
		return "Integer"
	case typeFloat:
		return "Float"
	case typeEmpty:
		return "Empty"
	}
	return "ValueType(" + strconv.Itoa(int(t.kind)) + ")"
}

// ParseValueWithType parses a string as the declared ValueType.
// Unlike ParseValue there is no fallback:
// a string that cannot be parsed as the declared type
// returns an error wrapping ErrParse.
func ParseValueWithType(str string, t ValueType) (Value, error) {
	switch t.kind {
	case typeString:
		return StringValue(str), nil

	case typeDateTime:
		parsed, err := dateparse.ParseAny(str)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return DateTimeValue(parsed), nil

	case typeDateTimeLayout:
		parsed, err := time.Parse(t.layout, str)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return DateTimeValue(parsed), nil

	case typeDateLayout:
		parsed, err := time.Parse(t.layout, str)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return DateValue(parsed), nil

	case typeTimeLayout:
		parsed, err := time.Parse(t.layout, str)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return TimeValue(parsed), nil

	case typeNumber:
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return FloatValue(f), nil
		}
		i, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return IntValue(i), nil

	case typeInteger:
		i, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return IntValue(i), nil

	case typeFloat:
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return Value{}, parseError(str, t)
		}
		return FloatValue(f), nil

	case typeEmpty:
		return EmptyValue(), nil
	}
	return Value{}, fmt.Errorf("%w: unknown value type %s", ErrParse, t)
}

func parseError(str string, t ValueType) error {
	return fmt.Errorf("%w: cannot parse %q as %s", ErrParse, str, t)
}
