package jsonvalue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

func TestParse_PreservesMemberOrder(t *testing.T) {
	v, err := ParseString(`{"z":1,"a":2,"m":{"y":true,"b":null}}`)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok, "expected object, got %T", v)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, ok := obj.Get("m")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())
}

func TestParse_DuplicateKeyLastValueWins(t *testing.T) {
	v, err := ParseString(`{"a":1,"b":2,"a":3}`)
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	got, _ := obj.Get("a")
	assert.Equal(t, Number("3"), got)
}

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{`null`, KindNull},
		{`true`, KindBool},
		{`-12.50e3`, KindNumber},
		{`"hi"`, KindString},
		{`[]`, KindArray},
		{`{}`, KindObject},
		{"  [1, 2]  \n", KindArray},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Kind())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated object", `{"a":1`},
		{"missing colon", `{"a" 1}`},
		{"trailing value", `{} {}`},
		{"trailing garbage", `[1] x`},
		{"bare word", `hello`},
		{"single quotes", `{'a':1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidJSON), "error should be marked invalid JSON: %v", err)
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	ok := strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth)
	_, err := ParseString(ok)
	require.NoError(t, err)

	deep := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	_, err = ParseString(deep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidJSON))
}

func TestMarshal_CompactRoundTrip(t *testing.T) {
	inputs := []string{
		`{"id":1700000000000,"cost":10.50,"description":"Elektrik <Ocak> & su","tags":["a","b"],"paid":false,"note":null}`,
		`[{"id":"x1","amount":-0.5e2},{"id":2,"nested":{"deep":[[],{}]}}]`,
		`"line\nbreak \"quoted\" ç"`,
		`42`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := ParseString(in)
			require.NoError(t, err)

			out, err := Marshal(v)
			require.NoError(t, err)

			again, err := Parse(out)
			require.NoError(t, err)
			out2, err := Marshal(again)
			require.NoError(t, err)
			assert.Equal(t, string(out), string(out2))
		})
	}
}

func TestMarshal_KeepsLiteralsAndDoesNotEscapeHTML(t *testing.T) {
	in := `{"cost":10.50,"text":"<b>&</b>"}`
	v, err := ParseString(in)
	require.NoError(t, err)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestMarshalIndent(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Number("1"))
	obj.Set("b", Array{String("x")})
	obj.Set("c", Array{})

	out, err := MarshalIndent(obj, "", "  ")
	require.NoError(t, err)
	want := "{\n  \"a\": 1,\n  \"b\": [\n    \"x\"\n  ],\n  \"c\": []\n}"
	assert.Equal(t, want, string(out))
}

func TestMarshal_RejectsBadNumberLiteral(t *testing.T) {
	_, err := Marshal(Number("12abc"))
	assert.Error(t, err)
}

func TestObject_ZeroValueAndSet(t *testing.T) {
	var obj Object
	assert.Equal(t, 0, obj.Len())
	assert.False(t, obj.Has("a"))

	obj.Set("a", String("1"))
	obj.Set("b", String("2"))
	obj.Set("a", String("3"))

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, String("3"), v)
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"missing", nil, true},
		{"null", Null{}, true},
		{"false", Bool(false), true},
		{"empty string", String(""), true},
		{"true", Bool(true), false},
		{"zero", Number("0"), true},
		{"negative zero", Number("-0.0"), true},
		{"zero exponent", Number("0e5"), true},
		{"one", Number("1"), false},
		{"string", String("42"), false},
		{"empty array", Array{}, false},
		{"empty object", NewObject(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmpty(tt.v))
		})
	}
}
