package values

import (
	"math"
	"testing"

	"github.com/go-test/deep"
	"github.com/sbezverk/parsort/sort"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func list(vs ...*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: vs})
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   *structpb.Value
		expect int
	}{
		{
			name:   "null before bool",
			a:      structpb.NewNullValue(),
			b:      structpb.NewBoolValue(false),
			expect: -1,
		},
		{
			name:   "nil equals null",
			a:      nil,
			b:      structpb.NewNullValue(),
			expect: 0,
		},
		{
			name:   "false before true",
			a:      structpb.NewBoolValue(false),
			b:      structpb.NewBoolValue(true),
			expect: -1,
		},
		{
			name:   "bool before number",
			a:      structpb.NewBoolValue(true),
			b:      structpb.NewNumberValue(-100),
			expect: -1,
		},
		{
			name:   "numbers",
			a:      structpb.NewNumberValue(2.5),
			b:      structpb.NewNumberValue(-1),
			expect: 1,
		},
		{
			name:   "NaN before numbers",
			a:      structpb.NewNumberValue(math.NaN()),
			b:      structpb.NewNumberValue(math.Inf(-1)),
			expect: -1,
		},
		{
			name:   "NaN equals NaN",
			a:      structpb.NewNumberValue(math.NaN()),
			b:      structpb.NewNumberValue(math.NaN()),
			expect: 0,
		},
		{
			name:   "number before string",
			a:      structpb.NewNumberValue(1e9),
			b:      structpb.NewStringValue(""),
			expect: -1,
		},
		{
			name:   "strings",
			a:      structpb.NewStringValue("Novak"),
			b:      structpb.NewStringValue("Dvorak"),
			expect: 1,
		},
		{
			name:   "list prefix first",
			a:      list(structpb.NewNumberValue(1)),
			b:      list(structpb.NewNumberValue(1), structpb.NewNumberValue(0)),
			expect: -1,
		},
		{
			name:   "list element wise",
			a:      list(structpb.NewNumberValue(2)),
			b:      list(structpb.NewNumberValue(1), structpb.NewNumberValue(5)),
			expect: 1,
		},
		{
			name:   "equal structs",
			a:      structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{"a": structpb.NewNumberValue(1), "b": structpb.NewNumberValue(2)}}),
			b:      structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{"b": structpb.NewNumberValue(2), "a": structpb.NewNumberValue(1)}}),
			expect: 0,
		},
		{
			name:   "struct keys",
			a:      structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{"a": structpb.NewNumberValue(9)}}),
			b:      structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{"b": structpb.NewNumberValue(1)}}),
			expect: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sign(Compare(tt.a, tt.b)); got != tt.expect {
				t.Errorf("Compare expected %d, got %d", tt.expect, got)
			}
			if got := sign(Compare(tt.b, tt.a)); got != -tt.expect {
				t.Errorf("Compare of swapped arguments expected %d, got %d", -tt.expect, got)
			}
		})
	}
}

func TestSortMixed(t *testing.T) {
	in := []*structpb.Value{
		Parse("pear"), Parse("3"), Parse("true"), Parse("null"), Parse("-1.5"), Parse("apple"), Parse("3"),
	}
	got := sort.Sorted(in, Compare, 2)
	var formatted []string
	for _, v := range got {
		formatted = append(formatted, Format(v))
	}
	expect := []string{"null", "true", "-1.5", "3", "3", "apple", "pear"}
	if diff := deep.Equal(formatted, expect); diff != nil {
		t.Errorf("%+v", diff)
	}
	// The two threes keep their input order.
	if got[3] != in[1] || got[4] != in[6] {
		t.Errorf("equal values supposed to keep their input order")
	}
	desc := sort.Sorted(in, Reverse, 2)
	if Format(desc[0]) != "pear" || Format(desc[len(desc)-1]) != "null" {
		t.Errorf("reverse order expected pear first and null last")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{input: "null", expect: "null"},
		{input: "false", expect: "false"},
		{input: "42", expect: "42"},
		{input: "1e3", expect: "1000"},
		{input: "-0.25", expect: "-0.25"},
		{input: "Dvorak", expect: "Dvorak"},
		{input: "", expect: ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Format(Parse(tt.input)); got != tt.expect {
				t.Errorf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		expect string
	}{
		{name: "plain", value: "Dvorak", expect: "Dvorak"},
		{name: "empty", value: "", expect: ""},
		{name: "looks like bool", value: "true", expect: `"true"`},
		{name: "looks like null", value: "null", expect: `"null"`},
		{name: "looks like number", value: "1", expect: `"1"`},
		{name: "line break", value: "a\nb", expect: `"a\nb"`},
		{name: "leading space", value: " a", expect: `" a"`},
		{name: "quoted", value: `"a"`, expect: `"\"a\""`},
		{name: "lone quote", value: `"`, expect: `"\""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := structpb.NewStringValue(tt.value)
			got := Format(v)
			if got != tt.expect {
				t.Errorf("expected %s, got %s", tt.expect, got)
			}
			if !proto.Equal(Parse(got), v) {
				t.Errorf("parsing %s supposed to return the string %q, got %v", got, tt.value, Parse(got))
			}
		})
	}
}

func TestRecord(t *testing.T) {
	v := list(Parse("1"), Parse("two"), Parse("null"))
	b, err := EncodeRecord(v)
	if err != nil {
		t.Fatalf("supposed to succeed but failed with error: %+v", err)
	}
	d, err := DecodeRecord(b)
	if err != nil {
		t.Fatalf("supposed to succeed but failed with error: %+v", err)
	}
	if !proto.Equal(v, d) {
		t.Errorf("decoded record does not match the original value")
	}
	if _, err := DecodeRecord([]byte{0xff, 0xff}); err == nil {
		t.Errorf("supposed to fail but succeeded")
	}
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}
