// Package values orders, parses and encodes the protobuf dynamic values which
// are sorted by the sort service and the command line tool.
package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sbezverk/parsort/sort"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Kind ranks, values of a lower rank sort first.
const (
	rankNull = iota
	rankBool
	rankNumber
	rankString
	rankList
	rankStruct
)

func rank(v *structpb.Value) int {
	switch v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return rankBool
	case *structpb.Value_NumberValue:
		return rankNumber
	case *structpb.Value_StringValue:
		return rankString
	case *structpb.Value_ListValue:
		return rankList
	case *structpb.Value_StructValue:
		return rankStruct
	}
	// nil values and values without a kind sort together with null.
	return rankNull
}

// Compare is a total order over *structpb.Value: null, then booleans, numbers,
// strings, lists and structs. NaN sorts before every other number. Lists are
// compared element by element, structs key by key in key order.
func Compare(a, b *structpb.Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankBool:
		return compareBool(a.GetBoolValue(), b.GetBoolValue())
	case rankNumber:
		return compareNumber(a.GetNumberValue(), b.GetNumberValue())
	case rankString:
		return strings.Compare(a.GetStringValue(), b.GetStringValue())
	case rankList:
		return compareList(a.GetListValue().GetValues(), b.GetListValue().GetValues())
	case rankStruct:
		return compareStruct(a.GetStructValue().GetFields(), b.GetStructValue().GetFields())
	}
	return 0
}

// Reverse returns the descending order of Compare. Equal values stay equal so a
// stable sort keeps their input order.
func Reverse(a, b *structpb.Value) int {
	return Compare(b, a)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareNumber(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareList(a, b []*structpb.Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareStruct(a, b map[string]*structpb.Value) int {
	ak, bk := keys(a), keys(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := Compare(a[ak[i]], b[bk[i]]); c != 0 {
			return c
		}
	}
	return len(ak) - len(bk)
}

func keys(m map[string]*structpb.Value) []string {
	k := make([]string, 0, len(m))
	for key := range m {
		k = append(k, key)
	}
	return sort.SortMergeComparableSlice(k)
}

// Parse turns a line of text into a value: null, true and false are taken
// literally, anything strconv.ParseFloat accepts becomes a number, a Go quoted
// string is unquoted and the rest is taken as a string.
func Parse(s string) *structpb.Value {
	if strings.HasPrefix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return structpb.NewStringValue(u)
		}
	}
	switch s {
	case "null":
		return structpb.NewNullValue()
	case "true":
		return structpb.NewBoolValue(true)
	case "false":
		return structpb.NewBoolValue(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return structpb.NewNumberValue(f)
	}
	return structpb.NewStringValue(s)
}

// Format renders v on a single line so that Parse returns an equal scalar.
// Strings Parse would read as another value, or which hold line breaks or
// surrounding space, are quoted. Lists and structs are rendered as JSON.
func Format(v *structpb.Value) string {
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'g', -1, 64)
	case *structpb.Value_StringValue:
		if needsQuote(k.StringValue) {
			return strconv.Quote(k.StringValue)
		}
		return k.StringValue
	case *structpb.Value_ListValue, *structpb.Value_StructValue:
		b, err := protojson.Marshal(v)
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return string(b)
	}
	return "null"
}

func needsQuote(s string) bool {
	if strings.ContainsAny(s, "\r\n") || strings.TrimSpace(s) != s {
		return true
	}
	_, ok := Parse(s).GetKind().(*structpb.Value_StringValue)
	return !ok || strings.HasPrefix(s, `"`)
}

// EncodeRecord returns the protobuf wire encoding of v.
func EncodeRecord(v *structpb.Value) ([]byte, error) {
	return proto.Marshal(v)
}

// DecodeRecord decodes a value encoded by EncodeRecord.
func DecodeRecord(b []byte) (*structpb.Value, error) {
	v := &structpb.Value{}
	if err := proto.Unmarshal(b, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseLine adapts Parse to the line decoder signature of the text feeder.
func ParseLine(s string) (*structpb.Value, error) {
	return Parse(s), nil
}
