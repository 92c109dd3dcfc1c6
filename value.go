// Package memtable implements an embeddable in-memory table engine
// with dynamically typed cell values.
//
// A Table owns its rows as parsed Value cells and supports mutation,
// filtering, grouping, sorting and splitting. Query operations return
// lightweight TableSlice views that share the underlying rows.
// A MappedTable serves the same read-only View interface directly from
// an externally owned byte buffer, typically a memory-mapped file,
// parsing cells lazily on access.
package memtable

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Kind identifies the dynamic type of a Value.
type Kind uint8

// The declaration order defines the sort order of values
// of different kinds and is part of the API contract:
// String < DateTime < Date < Time < Integer < Float < Empty.
const (
	KindString Kind = iota
	KindDateTime
	KindDate
	KindTime
	KindInteger
	KindFloat
	KindEmpty
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindDateTime:
		return "DateTime"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindEmpty:
		return "Empty"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamically typed table cell.
//
// The zero value is the empty string.
// Value is comparable with == and usable as a map key:
// float payloads are stored in a canonical bit encoding where
// all NaN values are identical and negative zero equals positive zero,
// so equal floats are always equal values.
type Value struct {
	kind Kind

	// str holds the payload of KindString.
	str string

	// num holds the payload of KindInteger,
	// days since 1970-01-01 for KindDate,
	// nanoseconds since midnight for KindTime
	// and microseconds since 1970-01-01 00:00:00 UTC for KindDateTime.
	num int64

	// fbits holds the payload of KindFloat in an
	// order-preserving bit encoding, see floatOrderedBits.
	fbits uint64
}

const secondsPerDay = 24 * 60 * 60

// StringValue returns a Value of KindString.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntValue returns a Value of KindInteger.
func IntValue(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// FloatValue returns a Value of KindFloat.
// All NaN arguments result in the same Value,
// negative zero is normalized to positive zero.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, fbits: floatOrderedBits(f)}
}

// DateValue returns a Value of KindDate
// for the UTC calendar day of t.
func DateValue(t time.Time) Value {
	year, month, day := t.UTC().Date()
	unix := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
	return Value{kind: KindDate, num: unix / secondsPerDay}
}

// TimeValue returns a Value of KindTime
// for the wall clock reading of t.
func TimeValue(t time.Time) Value {
	hour, min, sec := t.Clock()
	nanos := int64(hour)*int64(time.Hour) +
		int64(min)*int64(time.Minute) +
		int64(sec)*int64(time.Second) +
		int64(t.Nanosecond())
	return Value{kind: KindTime, num: nanos}
}

// TimeOfDayValue returns a Value of KindTime
// for a duration since midnight,
// normalized into the range [0, 24h).
func TimeOfDayValue(d time.Duration) Value {
	const day = 24 * time.Hour
	d %= day
	if d < 0 {
		d += day
	}
	return Value{kind: KindTime, num: int64(d)}
}

// DateTimeValue returns a Value of KindDateTime
// for the instant t with microsecond precision.
func DateTimeValue(t time.Time) Value {
	return Value{kind: KindDateTime, num: t.UnixMicro()}
}

// EmptyValue returns a Value of KindEmpty.
func EmptyValue() Value {
	return Value{kind: KindEmpty}
}

// Kind returns the dynamic type of the Value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the Value is of KindEmpty.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

// Text returns the string payload of a KindString Value
// and whether the Value is of that kind.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Int returns the Value as int64 and whether the conversion is valid.
// KindInteger values are returned as is,
// finite KindFloat values within the int64 range are truncated.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInteger:
		return v.num, true
	case KindFloat:
		f := floatFromOrderedBits(v.fbits)
		if f != f || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// Float returns the Value as float64 and whether the conversion is valid.
// KindFloat values are returned as is,
// KindInteger values are converted.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return floatFromOrderedBits(v.fbits), true
	case KindInteger:
		return float64(v.num), true
	}
	return 0, false
}

// Date returns the UTC midnight time of a KindDate Value
// and whether the Value is of that kind.
func (v Value) Date() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return time.Unix(v.num*secondsPerDay, 0).UTC(), true
}

// DateTime returns the UTC time of a KindDateTime Value
// and whether the Value is of that kind.
func (v Value) DateTime() (time.Time, bool) {
	if v.kind != KindDateTime {
		return time.Time{}, false
	}
	return time.UnixMicro(v.num).UTC(), true
}

// TimeOfDay returns the duration since midnight of a KindTime Value
// and whether the Value is of that kind.
func (v Value) TimeOfDay() (time.Duration, bool) {
	if v.kind != KindTime {
		return 0, false
	}
	return time.Duration(v.num), true
}

// MustText returns the string payload of a KindString Value
// or panics for any other kind.
func (v Value) MustText() string {
	s, ok := v.Text()
	if !ok {
		panic("memtable: " + v.kind.String() + " value is not a string")
	}
	return s
}

// MustInt returns the Value as int64
// or panics when the conversion is not valid.
func (v Value) MustInt() int64 {
	i, ok := v.Int()
	if !ok {
		panic("memtable: " + v.kind.String() + " value is not an integer")
	}
	return i
}

// MustFloat returns the Value as float64
// or panics when the conversion is not valid.
func (v Value) MustFloat() float64 {
	f, ok := v.Float()
	if !ok {
		panic("memtable: " + v.kind.String() + " value is not a float")
	}
	return f
}

// MustDate returns the UTC midnight time of a KindDate Value
// or panics for any other kind.
func (v Value) MustDate() time.Time {
	t, ok := v.Date()
	if !ok {
		panic("memtable: " + v.kind.String() + " value is not a date")
	}
	return t
}

// MustDateTime returns the UTC time of a KindDateTime Value
// or panics for any other kind.
func (v Value) MustDateTime() time.Time {
	t, ok := v.DateTime()
	if !ok {
		panic("memtable: " + v.kind.String() + " value is not a date-time")
	}
	return t
}

// MustTimeOfDay returns the duration since midnight of a KindTime Value
// or panics for any other kind.
func (v Value) MustTimeOfDay() time.Duration {
	d, ok := v.TimeOfDay()
	if !ok {
		panic("memtable: " + v.kind.String() + " value is not a time of day")
	}
	return d
}

// String returns the display representation of the Value,
// which ParseValue parses back into an equal Value.
// Floats always contain a decimal point or are NaN or infinite,
// dates use the layout 2006-01-02,
// date-times the layout 2006-01-02 15:04:05.999999
// and times the layout 15:04:05.999999999.
// Empty values are represented as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDateTime:
		return time.UnixMicro(v.num).UTC().Format("2006-01-02 15:04:05.999999")
	case KindDate:
		return time.Unix(v.num*secondsPerDay, 0).UTC().Format("2006-01-02")
	case KindTime:
		return time.Time{}.Add(time.Duration(v.num)).Format("15:04:05.999999999")
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		f := floatFromOrderedBits(v.fbits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return ""
}

// Any returns the payload of the Value as driver.Value compatible type:
// nil for KindEmpty, string for KindString, int64 for KindInteger,
// float64 for KindFloat, time.Time for KindDate and KindDateTime
// and the display string for KindTime.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindDateTime:
		return time.UnixMicro(v.num).UTC()
	case KindDate:
		return time.Unix(v.num*secondsPerDay, 0).UTC()
	case KindTime:
		return v.String()
	case KindInteger:
		return v.num
	case KindFloat:
		return floatFromOrderedBits(v.fbits)
	}
	return nil
}

// Compare returns -1, 0, or +1 comparing v and other.
// Values of different kinds order by Kind declaration order.
// Within KindFloat a total order is used where
// NaN compares greater than every other float.
func (v Value) Compare(other Value) int {
	if v.kind != other.kind {
		return cmp.Compare(v.kind, other.kind)
	}
	switch v.kind {
	case KindString:
		return strings.Compare(v.str, other.str)
	case KindFloat:
		return cmp.Compare(v.fbits, other.fbits)
	case KindEmpty:
		return 0
	}
	return cmp.Compare(v.num, other.num)
}

const floatSignMask = 1 << 63

// floatOrderedBits encodes a float64 so that unsigned integer
// comparison of the results matches a total order of the floats
// with NaN greater than every other value.
// NaN payloads are canonicalized and negative zero
// is normalized to positive zero so that equal floats
// always have equal encodings.
func floatOrderedBits(f float64) uint64 {
	if f != f {
		f = math.NaN()
	}
	if f == 0 {
		f = 0
	}
	b := math.Float64bits(f)
	if b&floatSignMask != 0 {
		return ^b
	}
	return b | floatSignMask
}

func floatFromOrderedBits(b uint64) float64 {
	if b&floatSignMask != 0 {
		return math.Float64frombits(b &^ floatSignMask)
	}
	return math.Float64frombits(^b)
}

// ParseValue parses a string into the Value kind it most likely
// represents, in this order of attempts:
//
//   - the empty string is KindEmpty
//   - strings consisting of digits, spaces, the separators '-', '/', ':'
//     and the letters of AM/PM, T and Z markers, with at least one
//     separator, are parsed as date, date-time or time of day
//   - strings of digits and '-' with exactly one '.' are parsed as float
//   - strings of digits and '-' are parsed as integer
//   - everything else, including any failed parse attempt
//     from above, is KindString
func ParseValue(str string) Value {
	if str == "" {
		return EmptyValue()
	}
	if looksLikeDateTime(str) {
		if val, ok := parseDateTimeValue(str); ok {
			return val
		}
	}
	if looksLikeFloat(str) {
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return FloatValue(f)
		}
	}
	if looksLikeInt(str) {
		if i, err := strconv.ParseInt(str, 10, 64); err == nil {
			return IntValue(i)
		}
	}
	return StringValue(str)
}

func looksLikeDateTime(str string) bool {
	separators := 0
	for i := 0; i < len(str); i++ {
		switch c := str[i]; {
		case c >= '0' && c <= '9':
			// valid
		case c == '-' || c == '/' || c == ':':
			separators++
		case c == ' ':
			// valid
		case c == 'a' || c == 'A' || c == 'p' || c == 'P' ||
			c == 'm' || c == 'M' || c == 'T' || c == 'Z':
			// AM/PM and ISO 8601 markers
		default:
			return false
		}
	}
	return separators > 0
}

func looksLikeFloat(str string) bool {
	points := 0
	for i := 0; i < len(str); i++ {
		switch c := str[i]; {
		case c >= '0' && c <= '9' || c == '-':
			// valid
		case c == '.':
			points++
		default:
			return false
		}
	}
	return points == 1
}

func looksLikeInt(str string) bool {
	for i := 0; i < len(str); i++ {
		if c := str[i]; (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// timeOnlyLayouts are tried in order for strings
// without a date separator.
// Go layouts match the case of AM/PM markers literally,
// so both spellings are listed.
var timeOnlyLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04:05 pm",
	"3:04:05PM",
	"3:04:05pm",
	"3:04 PM",
	"3:04 pm",
	"3:04PM",
	"3:04pm",
}

func parseDateTimeValue(str string) (Value, bool) {
	if !strings.ContainsAny(str, "-/") {
		for _, layout := range timeOnlyLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return TimeValue(t), true
			}
		}
		return Value{}, false
	}
	t, err := dateparse.ParseAny(str)
	if err != nil {
		return Value{}, false
	}
	hour, min, sec := t.Clock()
	if hour == 0 && min == 0 && sec == 0 && t.Nanosecond() == 0 {
		return DateValue(t), true
	}
	return DateTimeValue(t), true
}

// AnyValue converts a Go value into a Value,
// mapping driver.Value and JSON compatible types:
// nil to KindEmpty, strings and byte slices to KindString,
// integers and bools to KindInteger, floats to KindFloat,
// time.Time to KindDate when the clock reads exactly midnight UTC
// or KindDateTime otherwise
// and time.Duration to KindTime.
// Other types are formatted with fmt.Sprint into a KindString Value.
func AnyValue(val any) Value {
	switch x := val.(type) {
	case nil:
		return EmptyValue()
	case Value:
		return x
	case string:
		return StringValue(x)
	case []byte:
		return StringValue(string(x))
	case bool:
		if x {
			return IntValue(1)
		}
		return IntValue(0)
	case int:
		return IntValue(int64(x))
	case int8:
		return IntValue(int64(x))
	case int16:
		return IntValue(int64(x))
	case int32:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint:
		return IntValue(int64(x))
	case uint8:
		return IntValue(int64(x))
	case uint16:
		return IntValue(int64(x))
	case uint32:
		return IntValue(int64(x))
	case uint64:
		return IntValue(int64(x))
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	case time.Time:
		t := x.UTC()
		hour, min, sec := t.Clock()
		if hour == 0 && min == 0 && sec == 0 && t.Nanosecond() == 0 {
			return DateValue(t)
		}
		return DateTimeValue(t)
	case time.Duration:
		return TimeOfDayValue(x)
	}
	return StringValue(fmt.Sprint(val))
}
