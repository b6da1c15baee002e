package optparse

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// converter turns raw option text into a value assignable to the target field.
type converter func(raw string) (reflect.Value, error)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	byteType            = reflect.TypeOf(byte(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// converterKind records which variant was selected for a field.
type converterKind int

const (
	convertPrimitive converterKind = iota
	convertNullable
	convertEnum
	convertText
	convertSlice
)

func (k converterKind) String() string {
	switch k {
	case convertPrimitive:
		return "primitive"
	case convertNullable:
		return "nullable"
	case convertEnum:
		return "enum"
	case convertText:
		return "text"
	case convertSlice:
		return "slice"
	default:
		return "unknown"
	}
}

// newConverter selects the converter variant for typ once, at registry construction.
func newConverter(typ reflect.Type) (converter, converterKind, error) {
	switch typ.Kind() {
	case reflect.Pointer:
		if k := typ.Elem().Kind(); k == reflect.Pointer || k == reflect.Slice {
			return nil, 0, fmt.Errorf("unsupported pointer type %s", typ)
		}
		elem, _, err := newConverter(typ.Elem())
		if err != nil {
			return nil, 0, err
		}
		return nullableConverter(typ, elem), convertNullable, nil
	case reflect.Slice:
		// []byte is not a list of options
		if typ.Elem() == byteType {
			break
		}
		if typ.Elem().Kind() == reflect.Slice || typ.Elem().Kind() == reflect.Pointer {
			return nil, 0, fmt.Errorf("unsupported slice element type %s", typ.Elem())
		}
		elem, _, err := newConverter(typ.Elem())
		if err != nil {
			return nil, 0, err
		}
		return elem, convertSlice, nil
	}

	if spec, ok := enumSpecOf(typ); ok {
		conv, err := enumConverter(typ, spec)
		if err != nil {
			return nil, 0, err
		}
		return conv, convertEnum, nil
	}
	if implementsText(typ) {
		return textConverter(typ), convertText, nil
	}
	if conv := primitiveConverter(typ); conv != nil {
		return conv, convertPrimitive, nil
	}
	return nil, 0, fmt.Errorf("unsupported field type %s", typ)
}

func implementsText(typ reflect.Type) bool {
	return reflect.PointerTo(typ).Implements(textUnmarshalerType)
}

// nullableConverter wraps the element converter so a present value yields a
// pointer to the converted element.
func nullableConverter(typ reflect.Type, elem converter) converter {
	return func(raw string) (reflect.Value, error) {
		v, err := elem(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	}
}

func textConverter(typ reflect.Type) converter {
	return func(raw string) (reflect.Value, error) {
		ptr := reflect.New(typ)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}
}

// primitiveConverter returns the canonical textual parse for typ's kind, or nil.
func primitiveConverter(typ reflect.Type) converter {
	if typ == durationType {
		return func(raw string) (reflect.Value, error) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(d), nil
		}
	}

	switch typ.Kind() {
	case reflect.String:
		return func(raw string) (reflect.Value, error) {
			v := reflect.New(typ).Elem()
			v.SetString(raw)
			return v, nil
		}
	case reflect.Bool:
		return func(raw string) (reflect.Value, error) {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(typ).Elem()
			v.SetBool(b)
			return v, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(raw string) (reflect.Value, error) {
			n, err := strconv.ParseInt(raw, 10, typ.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(typ).Elem()
			v.SetInt(n)
			return v, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(raw string) (reflect.Value, error) {
			n, err := strconv.ParseUint(raw, 10, typ.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(typ).Elem()
			v.SetUint(n)
			return v, nil
		}
	case reflect.Float32, reflect.Float64:
		return func(raw string) (reflect.Value, error) {
			f, err := strconv.ParseFloat(raw, typ.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			v := reflect.New(typ).Elem()
			v.SetFloat(f)
			return v, nil
		}
	}
	return nil
}
