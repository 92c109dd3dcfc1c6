package memtable

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		str  string
		want Value
	}{
		{str: "", want: EmptyValue()},

		{str: "hello world", want: StringValue("hello world")},
		{str: "NaN", want: StringValue("NaN")},
		{str: "12 34", want: StringValue("12 34")},
		{str: "1.2.3", want: StringValue("1.2.3")},
		{str: "14.05.1984", want: StringValue("14.05.1984")},
		{str: "24:00", want: StringValue("24:00")},
		// beyond int64 range
		{str: "9223372036854775808", want: StringValue("9223372036854775808")},

		{str: "123456", want: IntValue(123456)},
		{str: "-42", want: IntValue(-42)},
		{str: "00123", want: IntValue(123)},
		{str: "9223372036854775807", want: IntValue(math.MaxInt64)},

		{str: "6.1234", want: FloatValue(6.1234)},
		{str: "-0.5", want: FloatValue(-0.5)},
		{str: "-.5", want: FloatValue(-0.5)},
		{str: "0.0", want: FloatValue(0)},

		{str: "1984-05-14", want: DateValue(date(1984, 5, 14))},
		{str: "2020-03-04", want: DateValue(date(2020, 3, 4))},

		{str: "2001-01-02 15:04:05", want: DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC))},
		{str: "2001-01-02T15:04:05Z", want: DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC))},
		{str: "1/2/2020 5:34:45 pm", want: DateTimeValue(time.Date(2020, 1, 2, 17, 34, 45, 0, time.UTC))},

		{str: "10:30:00", want: TimeOfDayValue(10*time.Hour + 30*time.Minute)},
		{str: "23:59:59", want: TimeOfDayValue(23*time.Hour + 59*time.Minute + 59*time.Second)},
		{str: "5:34 pm", want: TimeOfDayValue(17*time.Hour + 34*time.Minute)},
		{str: "5:34:45 PM", want: TimeOfDayValue(17*time.Hour + 34*time.Minute + 45*time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			require.Equal(t, tt.want, ParseValue(tt.str))
		})
	}
}

// Re-parsing the display form of an inferred value must yield
// an equal value, so written tables load back unchanged.
func TestParseValue_displayRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"123456",
		"-42",
		"6.1234",
		"-0.5",
		"0.0",
		"1000000000000000000000.0",
		"1984-05-14",
		"2001-01-02 15:04:05",
		"1/2/2020 5:34:45 pm",
		"10:30:00",
		"5:34 pm",
	}
	for _, input := range inputs {
		val := ParseValue(input)
		require.Equal(t, val, ParseValue(val.String()), "display %q of input %q", val.String(), input)
	}
}

func TestValue_Compare(t *testing.T) {
	t.Run("kind order", func(t *testing.T) {
		// String < DateTime < Date < Time < Integer < Float < Empty
		ordered := []Value{
			StringValue("zzz"),
			DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC)),
			DateValue(date(1984, 5, 14)),
			TimeOfDayValue(10 * time.Hour),
			IntValue(-1),
			FloatValue(-0.5),
			EmptyValue(),
		}
		for i, a := range ordered {
			require.Equal(t, 0, a.Compare(a))
			for _, b := range ordered[i+1:] {
				require.Equal(t, -1, a.Compare(b), "%v before %v", a, b)
				require.Equal(t, 1, b.Compare(a), "%v after %v", b, a)
			}
		}
	})

	t.Run("within kind", func(t *testing.T) {
		require.Equal(t, -1, StringValue("abc").Compare(StringValue("abd")))
		require.Equal(t, -1, IntValue(-2).Compare(IntValue(3)))
		require.Equal(t, -1, FloatValue(-1.5).Compare(FloatValue(2)))
		require.Equal(t, -1,
			DateValue(date(1984, 5, 14)).Compare(DateValue(date(2020, 3, 4))))
		require.Equal(t, -1,
			TimeOfDayValue(10*time.Hour).Compare(TimeOfDayValue(10*time.Hour+time.Nanosecond)))
	})

	t.Run("float total order", func(t *testing.T) {
		nan := FloatValue(math.NaN())
		require.Equal(t, 0, nan.Compare(nan))
		require.Equal(t, 1, nan.Compare(FloatValue(math.Inf(1))))
		require.Equal(t, -1, FloatValue(math.Inf(-1)).Compare(FloatValue(math.MinInt64)))
		require.Equal(t, 0, FloatValue(0).Compare(FloatValue(math.Copysign(0, -1))))
	})
}

func TestValue_mapKey(t *testing.T) {
	m := make(map[Value]int)
	m[FloatValue(math.NaN())] = 1
	m[FloatValue(math.NaN())] = 2
	require.Len(t, m, 1, "all NaN values are the same key")
	require.Equal(t, 2, m[FloatValue(math.NaN())])

	m[FloatValue(0)] = 3
	m[FloatValue(math.Copysign(0, -1))] = 4
	require.Len(t, m, 2, "negative zero is the same key as zero")
	require.Equal(t, 4, m[FloatValue(0)])

	require.True(t, FloatValue(math.NaN()) == FloatValue(math.NaN()))
	require.True(t, StringValue("") != EmptyValue())
}

func TestValue_accessors(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		v := StringValue("hello")
		require.Equal(t, KindString, v.Kind())
		require.False(t, v.IsEmpty())
		s, ok := v.Text()
		require.True(t, ok)
		require.Equal(t, "hello", s)
		_, ok = v.Int()
		require.False(t, ok)
		require.Panics(t, func() { v.MustInt() })
	})

	t.Run("integer", func(t *testing.T) {
		v := IntValue(42)
		i, ok := v.Int()
		require.True(t, ok)
		require.Equal(t, int64(42), i)
		f, ok := v.Float()
		require.True(t, ok)
		require.Equal(t, 42.0, f)
		_, ok = v.Text()
		require.False(t, ok)
		require.Panics(t, func() { v.MustText() })
	})

	t.Run("float", func(t *testing.T) {
		v := FloatValue(6.9)
		require.Equal(t, 6.9, v.MustFloat())
		i, ok := v.Int()
		require.True(t, ok)
		require.Equal(t, int64(6), i, "float to int truncates")
		_, ok = FloatValue(math.NaN()).Int()
		require.False(t, ok)
		_, ok = FloatValue(math.Inf(1)).Int()
		require.False(t, ok)
	})

	t.Run("temporal", func(t *testing.T) {
		d := DateValue(date(1984, 5, 14))
		require.Equal(t, date(1984, 5, 14), d.MustDate())
		_, ok := d.DateTime()
		require.False(t, ok)

		dt := DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 123456000, time.UTC))
		require.Equal(t, time.Date(2001, 1, 2, 15, 4, 5, 123456000, time.UTC), dt.MustDateTime())
		_, ok = dt.Date()
		require.False(t, ok)

		tod := TimeOfDayValue(10*time.Hour + 30*time.Minute)
		require.Equal(t, 10*time.Hour+30*time.Minute, tod.MustTimeOfDay())
		require.Panics(t, func() { tod.MustDate() })
	})

	t.Run("empty", func(t *testing.T) {
		var zero Value
		require.Equal(t, KindString, zero.Kind(), "zero value is the empty string")
		v := EmptyValue()
		require.True(t, v.IsEmpty())
		_, ok := v.Text()
		require.False(t, ok)
		_, ok = v.Int()
		require.False(t, ok)
	})
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{val: StringValue("hello"), want: "hello"},
		{val: EmptyValue(), want: ""},
		{val: IntValue(42), want: "42"},
		{val: IntValue(-7), want: "-7"},
		{val: FloatValue(0), want: "0.0"},
		{val: FloatValue(6.5), want: "6.5"},
		{val: FloatValue(-0.5), want: "-0.5"},
		{val: FloatValue(math.NaN()), want: "NaN"},
		{val: FloatValue(math.Inf(1)), want: "+Inf"},
		{val: FloatValue(math.Inf(-1)), want: "-Inf"},
		{val: DateValue(date(1984, 5, 14)), want: "1984-05-14"},
		{val: DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC)), want: "2001-01-02 15:04:05"},
		{val: DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 123456000, time.UTC)), want: "2001-01-02 15:04:05.123456"},
		{val: TimeOfDayValue(10*time.Hour + 30*time.Minute), want: "10:30:00"},
		{val: TimeOfDayValue(23*time.Hour + 59*time.Minute + 59*time.Second + 500*time.Millisecond), want: "23:59:59.5"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.val.String())
	}
}

func TestValue_Any(t *testing.T) {
	require.Nil(t, EmptyValue().Any())
	require.Equal(t, "hello", StringValue("hello").Any())
	require.Equal(t, int64(42), IntValue(42).Any())
	require.Equal(t, 6.5, FloatValue(6.5).Any())
	require.Equal(t, date(1984, 5, 14), DateValue(date(1984, 5, 14)).Any())
	require.Equal(t,
		time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC),
		DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC)).Any())
	require.Equal(t, "10:30:00", TimeOfDayValue(10*time.Hour+30*time.Minute).Any())
}

func TestAnyValue(t *testing.T) {
	tests := []struct {
		val  any
		want Value
	}{
		{val: nil, want: EmptyValue()},
		{val: IntValue(1), want: IntValue(1)},
		{val: "hello", want: StringValue("hello")},
		{val: []byte("raw"), want: StringValue("raw")},
		{val: true, want: IntValue(1)},
		{val: false, want: IntValue(0)},
		{val: int(-3), want: IntValue(-3)},
		{val: int64(42), want: IntValue(42)},
		{val: uint16(7), want: IntValue(7)},
		{val: float32(0.5), want: FloatValue(0.5)},
		{val: float64(6.5), want: FloatValue(6.5)},
		{val: date(1984, 5, 14), want: DateValue(date(1984, 5, 14))},
		{val: time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC), want: DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC))},
		{val: 10*time.Hour + 30*time.Minute, want: TimeOfDayValue(10*time.Hour + 30*time.Minute)},
		{val: struct{ X int }{X: 1}, want: StringValue("{1}")},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, AnyValue(tt.val), "AnyValue(%#v)", tt.val)
	}
}

func TestParseValueWithType(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		typ     ValueType
		want    Value
		wantErr bool
	}{
		{name: "string verbatim", str: "123", typ: TypeString(), want: StringValue("123")},
		{name: "string empty", str: "", typ: TypeString(), want: StringValue("")},

		{name: "datetime detected", str: "1/2/2020 5:34:45 pm", typ: TypeDateTime(),
			want: DateTimeValue(time.Date(2020, 1, 2, 17, 34, 45, 0, time.UTC))},
		{name: "datetime invalid", str: "hello", typ: TypeDateTime(), wantErr: true},

		{name: "datetime layout", str: "2001-01-02 15:04:05", typ: TypeDateTimeLayout("2006-01-02 15:04:05"),
			want: DateTimeValue(time.Date(2001, 1, 2, 15, 4, 5, 0, time.UTC))},
		{name: "datetime layout mismatch", str: "2001-01-02", typ: TypeDateTimeLayout("2006-01-02 15:04:05"), wantErr: true},

		{name: "date layout", str: "1984-05-14", typ: TypeDateLayout("2006-01-02"),
			want: DateValue(date(1984, 5, 14))},
		{name: "date dotted layout", str: "14.05.1984", typ: TypeDateLayout("02.01.2006"),
			want: DateValue(date(1984, 5, 14))},
		{name: "date layout mismatch", str: "14.05.1984", typ: TypeDateLayout("2006-01-02"), wantErr: true},

		{name: "time layout", str: "10:30", typ: TypeTimeLayout("15:04"),
			want: TimeOfDayValue(10*time.Hour + 30*time.Minute)},

		{name: "number is float first", str: "42", typ: TypeNumber(), want: FloatValue(42)},
		{name: "number float", str: "6.5", typ: TypeNumber(), want: FloatValue(6.5)},
		{name: "number invalid", str: "hello", typ: TypeNumber(), wantErr: true},

		{name: "integer", str: "-42", typ: TypeInteger(), want: IntValue(-42)},
		{name: "integer rejects float", str: "6.5", typ: TypeInteger(), wantErr: true},
		{name: "integer rejects empty", str: "", typ: TypeInteger(), wantErr: true},

		{name: "float", str: "-0.5", typ: TypeFloat(), want: FloatValue(-0.5)},
		{name: "float invalid", str: "x", typ: TypeFloat(), wantErr: true},

		{name: "empty ignores content", str: "anything", typ: TypeEmpty(), want: EmptyValue()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValueWithType(tt.str, tt.typ)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
