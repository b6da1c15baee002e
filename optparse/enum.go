package optparse

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// EnumMember is a named value of an enumeration.
type EnumMember struct {
	Name  string
	Value uint64
}

// EnumSpec describes the members of an enumeration type.
// When Flags is set, members are independent bits and a comma-separated
// list of names is combined with bitwise OR.
type EnumSpec struct {
	Members []EnumMember
	Flags   bool
}

// Enumeration is implemented by integer-kinded named types that should be parsed
// by member name rather than as plain numbers.
//
//	type Animal uint8
//
//	const (
//		AnimalNone Animal = iota
//		AnimalDog
//		AnimalCat
//		AnimalMongoose
//	)
//
//	func (Animal) Enumeration() optparse.EnumSpec {
//		return optparse.EnumSpec{Flags: true, Members: []optparse.EnumMember{
//			{"None", 0}, {"Dog", 1}, {"Cat", 2}, {"Mongoose", 3},
//		}}
//	}
type Enumeration interface {
	Enumeration() EnumSpec
}

var (
	enumerationType = reflect.TypeOf((*Enumeration)(nil)).Elem()

	errEmptyEnumElement = errors.New("empty enumeration member")
	errMultipleMembers  = errors.New("enumeration does not accept multiple members")
)

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// enumSpecOf returns the EnumSpec of typ if typ or *typ implements Enumeration.
func enumSpecOf(typ reflect.Type) (EnumSpec, bool) {
	switch {
	case typ.Implements(enumerationType):
		return reflect.Zero(typ).Interface().(Enumeration).Enumeration(), true
	case reflect.PointerTo(typ).Implements(enumerationType):
		return reflect.New(typ).Interface().(Enumeration).Enumeration(), true
	}
	return EnumSpec{}, false
}

// enumConverter builds the converter for an integer type implementing Enumeration.
func enumConverter(typ reflect.Type, spec EnumSpec) (converter, error) {
	if !isIntegerKind(typ.Kind()) {
		return nil, fmt.Errorf("enumeration %s must have an integer underlying type", typ)
	}
	if len(spec.Members) == 0 {
		return nil, fmt.Errorf("enumeration %s declares no members", typ)
	}
	for _, member := range spec.Members {
		probe := reflect.New(typ).Elem()
		if overflowsKind(probe, member.Value) {
			return nil, fmt.Errorf("enumeration %s member %s value %d overflows %s",
				typ, member.Name, member.Value, typ.Kind())
		}
	}

	return func(raw string) (reflect.Value, error) {
		parts := strings.Split(raw, ",")
		if len(parts) > 1 && !spec.Flags {
			return reflect.Value{}, errMultipleMembers
		}
		result := reflect.New(typ).Elem()
		var combined uint64
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				return reflect.Value{}, errEmptyEnumElement
			}
			value, err := enumElementValue(typ, spec, part)
			if err != nil {
				return reflect.Value{}, err
			}
			combined |= value
		}
		setEnumBits(result, combined)
		return result, nil
	}, nil
}

// enumElementValue resolves one element, either numerically or by member name.
// Numeric values must fit the underlying kind of typ.
func enumElementValue(typ reflect.Type, spec EnumSpec, part string) (uint64, error) {
	probe := reflect.New(typ).Elem()
	if isUnsignedKind(typ.Kind()) {
		if n, err := strconv.ParseUint(part, 10, 64); err == nil {
			if probe.OverflowUint(n) {
				return 0, fmt.Errorf("value %d out of range for %s", n, typ.Kind())
			}
			return n, nil
		}
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			return 0, fmt.Errorf("value %s out of range for %s", part, typ.Kind())
		}
	} else if n, err := strconv.ParseInt(part, 10, 64); err == nil {
		if probe.OverflowInt(n) {
			return 0, fmt.Errorf("value %d out of range for %s", n, typ.Kind())
		}
		return uint64(n), nil
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("value %s out of range for %s", part, typ.Kind())
	}

	for _, member := range spec.Members {
		if strings.EqualFold(member.Name, part) {
			return member.Value, nil
		}
	}
	return 0, fmt.Errorf("%q is not a member of %s", part, typ)
}

func overflowsKind(v reflect.Value, bits uint64) bool {
	if isUnsignedKind(v.Kind()) {
		return v.OverflowUint(bits)
	}
	return v.OverflowInt(int64(bits))
}

func setEnumBits(v reflect.Value, bits uint64) {
	if isUnsignedKind(v.Kind()) {
		v.SetUint(bits)
		return
	}
	// signed kinds: truncate to the kind's width
	v.SetInt(int64(bits))
}
