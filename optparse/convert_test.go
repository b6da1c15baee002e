package optparse

import (
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type Animal uint8

const (
	AnimalNone Animal = iota
	AnimalDog
	AnimalCat
	AnimalMongoose
)

func (Animal) Enumeration() EnumSpec {
	return EnumSpec{Flags: true, Members: []EnumMember{
		{Name: "None", Value: 0},
		{Name: "Dog", Value: 1},
		{Name: "Cat", Value: 2},
		{Name: "Mongoose", Value: 3},
	}}
}

type Color int16

const (
	ColorRed Color = iota - 1
	ColorGreen
	ColorBlue
)

func (*Color) Enumeration() EnumSpec {
	return EnumSpec{Members: []EnumMember{
		{Name: "red", Value: uint64(0xFFFFFFFFFFFFFFFF)},
		{Name: "green", Value: 0},
		{Name: "blue", Value: 1},
	}}
}

func convertWith(t *testing.T, typ reflect.Type, raw string) (any, error) {
	t.Helper()
	conv, _, err := newConverter(typ)
	require.NoError(t, err)
	v, err := conv(raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func TestConverter_Primitives(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		typ  reflect.Type
		raw  string
		want any
	}{
		{"string", reflect.TypeOf(""), "bob", "bob"},
		{"bool", reflect.TypeOf(false), "true", true},
		{"bool short", reflect.TypeOf(false), "0", false},
		{"int", reflect.TypeOf(0), "-13", -13},
		{"int8", reflect.TypeOf(int8(0)), "127", int8(127)},
		{"uint16", reflect.TypeOf(uint16(0)), "65535", uint16(65535)},
		{"float64", reflect.TypeOf(0.0), "2.5", 2.5},
		{"float32", reflect.TypeOf(float32(0)), "0.5", float32(0.5)},
		{"duration", reflect.TypeOf(time.Duration(0)), "1m30s", 90 * time.Second},
		{"text unmarshaler", reflect.TypeOf(netip.Addr{}), "10.0.0.1", netip.MustParseAddr("10.0.0.1")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := convertWith(t, tt.typ, tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_PrimitiveFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		typ  reflect.Type
		raw  string
	}{
		{"int from word", reflect.TypeOf(0), "bob"},
		{"int8 overflow", reflect.TypeOf(int8(0)), "128"},
		{"uint negative", reflect.TypeOf(uint(0)), "-1"},
		{"hex is not base 10", reflect.TypeOf(0), "0x10"},
		{"bool word", reflect.TypeOf(false), "yes"},
		{"duration", reflect.TypeOf(time.Duration(0)), "soon"},
		{"text", reflect.TypeOf(netip.Addr{}), "not-an-ip"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := convertWith(t, tt.typ, tt.raw)
			require.Error(t, err)
		})
	}
}

func TestConverter_Nullable(t *testing.T) {
	t.Parallel()
	conv, kind, err := newConverter(reflect.TypeOf((*int)(nil)))
	require.NoError(t, err)
	require.Equal(t, convertNullable, kind)

	v, err := conv("13")
	require.NoError(t, err)
	require.Equal(t, 13, *(v.Interface().(*int)))

	_, err = conv("bob")
	require.Error(t, err)
}

func TestConverter_Kinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ  reflect.Type
		want converterKind
	}{
		{reflect.TypeOf(""), convertPrimitive},
		{reflect.TypeOf((*string)(nil)), convertNullable},
		{reflect.TypeOf(AnimalNone), convertEnum},
		{reflect.TypeOf(netip.Addr{}), convertText},
		{reflect.TypeOf([]int(nil)), convertSlice},
		{reflect.TypeOf([]Animal(nil)), convertSlice},
	}
	for _, tt := range tests {
		_, kind, err := newConverter(tt.typ)
		require.NoError(t, err, tt.typ.String())
		require.Equal(t, tt.want, kind, tt.typ.String())
		require.NotEqual(t, "unknown", kind.String())
	}
}

func TestEnumConverter_Flags(t *testing.T) {
	t.Parallel()
	typ := reflect.TypeOf(AnimalNone)
	tests := []struct {
		raw  string
		want Animal
	}{
		{"Mongoose", AnimalMongoose},
		{"mongoose", AnimalMongoose},
		{"Cat,Dog", AnimalCat | AnimalDog},
		{" cat , DOG ", AnimalCat | AnimalDog},
		{"1", AnimalDog},
		{"Dog,2", AnimalDog | AnimalCat},
		{"255", Animal(255)},
		{"None", AnimalNone},
	}
	for _, tt := range tests {
		got, err := convertWith(t, typ, tt.raw)
		require.NoError(t, err, tt.raw)
		require.Equal(t, tt.want, got, tt.raw)
	}
}

func TestEnumConverter_Failures(t *testing.T) {
	t.Parallel()
	typ := reflect.TypeOf(AnimalNone)
	for _, raw := range []string{"1000", "256", "-1", "bob", "", "Cat,", ",Dog", "99999999999999999999999"} {
		_, err := convertWith(t, typ, raw)
		require.Error(t, err, "%q", raw)
	}
}

func TestEnumConverter_PointerReceiverSigned(t *testing.T) {
	t.Parallel()
	typ := reflect.TypeOf(ColorRed)

	got, err := convertWith(t, typ, "RED")
	require.NoError(t, err)
	require.Equal(t, ColorRed, got)

	got, err = convertWith(t, typ, "-1")
	require.NoError(t, err)
	require.Equal(t, ColorRed, got)

	_, err = convertWith(t, typ, "red,blue")
	require.ErrorIs(t, err, errMultipleMembers)

	_, err = convertWith(t, typ, "40000")
	require.Error(t, err)
}

type emptyEnum int

func (emptyEnum) Enumeration() EnumSpec { return EnumSpec{} }

type stringEnum string

func (stringEnum) Enumeration() EnumSpec {
	return EnumSpec{Members: []EnumMember{{Name: "a", Value: 1}}}
}

type tinyEnum uint8

func (tinyEnum) Enumeration() EnumSpec {
	return EnumSpec{Members: []EnumMember{{Name: "huge", Value: 300}}}
}

func TestEnumConverter_Declarations(t *testing.T) {
	t.Parallel()
	for _, typ := range []reflect.Type{
		reflect.TypeOf(emptyEnum(0)),
		reflect.TypeOf(stringEnum("")),
		reflect.TypeOf(tinyEnum(0)),
	} {
		_, _, err := newConverter(typ)
		require.Error(t, err, typ.String())
	}
}
