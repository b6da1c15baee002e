package optparse

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Descriptor is the immutable metadata of one declared option.
type Descriptor struct {
	long       string
	short      rune
	argument   Argument
	fieldName  string
	env        string
	defaultRaw string
	hasDefault bool

	index        []int
	fieldType    reflect.Type
	convert      converter
	kind         converterKind
	defaultValue reflect.Value
	presence     [][]int
}

// Long returns the long name.
func (d *Descriptor) Long() string { return d.long }

// Short returns the short name, or 0 when the option has none.
func (d *Descriptor) Short() rune { return d.short }

// Argument returns the argument requirement.
func (d *Descriptor) Argument() Argument { return d.argument }

// FieldName returns the Go field path ("Outer.Inner" for promoted fields).
func (d *Descriptor) FieldName() string { return d.fieldName }

// Env returns the environment variable named by the `env` tag.
func (d *Descriptor) Env() string { return d.env }

// Default returns the raw `default` tag value.
func (d *Descriptor) Default() (string, bool) { return d.defaultRaw, d.hasDefault }

// HasPresenceFlag reports whether a presence field tracks this option.
func (d *Descriptor) HasPresenceFlag() bool { return len(d.presence) > 0 }

// FieldType returns the type of the target field.
func (d *Descriptor) FieldType() reflect.Type { return d.fieldType }

// Display returns the name users are most likely to type, "--long".
func (d *Descriptor) Display() string { return "--" + d.long }

// Registry maps long and short names to descriptors for one struct type.
// It is never mutated after construction and is safe for concurrent use.
type Registry struct {
	typ         reflect.Type
	descriptors []*Descriptor
	byLong      map[string]*Descriptor
	byShort     map[rune]*Descriptor
	positional  []int
}

// Type returns the struct type the registry was built from.
func (r *Registry) Type() reflect.Type { return r.typ }

// Descriptors returns the descriptors in field declaration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Long looks up a descriptor by exact, case-sensitive long name.
func (r *Registry) Long(name string) (*Descriptor, bool) {
	d, ok := r.byLong[name]
	return d, ok
}

// Short looks up a descriptor by exact short name.
func (r *Registry) Short(name rune) (*Descriptor, bool) {
	d, ok := r.byShort[name]
	return d, ok
}

// HasPositionalSink reports whether the struct declares a positional field.
func (r *Registry) HasPositionalSink() bool { return r.positional != nil }

// LongNames returns all long names, sorted.
func (r *Registry) LongNames() []string {
	names := make([]string, 0, len(r.byLong))
	for name := range r.byLong {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup resolves an option reference token.
func (r *Registry) lookup(tok Token) (*Descriptor, bool) {
	if tok.Kind == TokenShort {
		c, _ := utf8.DecodeRuneInString(tok.Name)
		return r.Short(c)
	}
	return r.Long(tok.Name)
}

var registryCache sync.Map // reflect.Type -> *Registry

// RegistryFor returns the cached registry of T, building it on first use.
func RegistryFor[T any]() (*Registry, error) {
	return registryOf(reflect.TypeOf((*T)(nil)).Elem())
}

func registryOf(typ reflect.Type) (*Registry, error) {
	if cached, ok := registryCache.Load(typ); ok {
		return cached.(*Registry), nil
	}
	reg, err := BuildRegistry(typ)
	if err != nil {
		return nil, err
	}
	actual, _ := registryCache.LoadOrStore(typ, reg)
	return actual.(*Registry), nil
}

type presenceDecl struct {
	fieldName string
	target    string
	index     []int
}

// BuildRegistry builds a registry from the tags of a struct type (or pointer to struct).
// Embedded structs contribute their tagged fields.
func BuildRegistry(typ reflect.Type) (*Registry, error) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, &ParseError{
			Type:    ErrorTypeInvalidDeclaration,
			Message: fmt.Sprintf("expected struct, got %s", typ),
		}
	}

	reg := &Registry{
		typ:     typ,
		byLong:  make(map[string]*Descriptor),
		byShort: make(map[rune]*Descriptor),
	}
	var presences []presenceDecl
	positionalField := ""

	for _, field := range reflect.VisibleFields(typ) {
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			continue
		}
		fieldName := fieldPath(typ, field.Index)
		tags, err := readFieldTags(field)
		if err != nil {
			return nil, newDeclarationError(fieldName, "%v", err)
		}
		if tags.role == roleIgnored {
			continue
		}
		if !field.IsExported() {
			return nil, newDeclarationError(fieldName, "tagged field must be exported")
		}
		if throughPointer(typ, field.Index) {
			return nil, newDeclarationError(fieldName, "tagged field must not be promoted through an embedded pointer")
		}

		switch tags.role {
		case roleOption:
			desc, err := newDescriptor(field, fieldName, tags)
			if err != nil {
				return nil, err
			}
			if err := reg.add(desc); err != nil {
				return nil, err
			}
		case rolePresence:
			if field.Type.Kind() != reflect.Bool {
				return nil, newDeclarationError(fieldName, "presence field must be bool, got %s", field.Type)
			}
			presences = append(presences, presenceDecl{fieldName: fieldName, target: tags.present, index: field.Index})
		case rolePositional:
			if field.Type != reflect.TypeOf([]string(nil)) {
				return nil, newDeclarationError(fieldName, "positional field must be []string, got %s", field.Type)
			}
			if reg.positional != nil {
				return nil, newDeclarationError(fieldName, "positional values already collected by %q", positionalField)
			}
			reg.positional = field.Index
			positionalField = fieldName
		}
	}

	for _, p := range presences {
		desc, ok := reg.byLong[p.target]
		if r, err := parseShortName(p.target); err == nil {
			if short, found := reg.byShort[r]; found {
				if ok && short != desc {
					return nil, newDeclarationError(p.fieldName, "presence tag %q matches long name of %q and short name of %q",
						p.target, desc.long, short.long)
				}
				desc, ok = short, true
			}
		}
		if !ok {
			return nil, newDeclarationError(p.fieldName, "presence tag refers to undeclared option %q", p.target)
		}
		desc.presence = append(desc.presence, p.index)
	}
	return reg, nil
}

func newDescriptor(field reflect.StructField, fieldName string, tags fieldTags) (*Descriptor, error) {
	if err := validateLongName(tags.long); err != nil {
		return nil, newDeclarationError(fieldName, "%v", err)
	}
	desc := &Descriptor{
		long:       tags.long,
		fieldName:  fieldName,
		env:        tags.env,
		defaultRaw: tags.def,
		hasDefault: tags.hasDefault,
		index:      field.Index,
		fieldType:  field.Type,
	}
	if tags.hasShort {
		r, err := parseShortName(tags.short)
		if err != nil {
			return nil, newDeclarationError(fieldName, "%v", err)
		}
		desc.short = r
	}

	isBool := field.Type.Kind() == reflect.Bool ||
		(field.Type.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Bool)
	desc.argument = ArgRequired
	if isBool {
		desc.argument = ArgNone
	}
	if tags.hasArg {
		arg, err := ParseArgument(tags.arg)
		if err != nil {
			return nil, newDeclarationError(fieldName, "%v", err)
		}
		desc.argument = arg
	}
	if desc.argument == ArgNone && !isBool {
		return nil, newDeclarationError(fieldName, "option without argument must target a bool field, got %s", field.Type)
	}

	conv, kind, err := newConverter(field.Type)
	if err != nil {
		return nil, newDeclarationError(fieldName, "%v", err)
	}
	desc.convert = conv
	desc.kind = kind

	if desc.hasDefault {
		value, err := desc.convertAll(desc.defaultRaw)
		if err != nil {
			return nil, &ParseError{
				Type:    ErrorTypeInvalidDeclaration,
				Message: fmt.Sprintf("field %q: invalid default %q", fieldName, desc.defaultRaw),
				Option:  fieldName,
				Value:   desc.defaultRaw,
				Cause:   err,
			}
		}
		desc.defaultValue = value
	}
	return desc, nil
}

// convertAll converts a complete field value. For slice fields raw is a
// comma-separated list; otherwise it is a single value.
func (d *Descriptor) convertAll(raw string) (reflect.Value, error) {
	if d.kind != convertSlice {
		return d.convert(raw)
	}
	out := reflect.MakeSlice(d.fieldType, 0, 1)
	if raw == "" {
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		v, err := d.convert(strings.TrimSpace(part))
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	return out, nil
}

func (r *Registry) add(desc *Descriptor) error {
	if other, exists := r.byLong[desc.long]; exists {
		return newDuplicateOptionError("--"+desc.long, other.fieldName, desc.fieldName)
	}
	if desc.short != 0 {
		if other, exists := r.byShort[desc.short]; exists {
			return newDuplicateOptionError("-"+string(desc.short), other.fieldName, desc.fieldName)
		}
		r.byShort[desc.short] = desc
	}
	r.byLong[desc.long] = desc
	r.descriptors = append(r.descriptors, desc)
	return nil
}

func fieldPath(typ reflect.Type, index []int) string {
	names := make([]string, 0, len(index))
	for _, i := range index {
		if typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}
		f := typ.Field(i)
		names = append(names, f.Name)
		typ = f.Type
	}
	return strings.Join(names, ".")
}

func throughPointer(typ reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		typ = typ.Field(i).Type
		if typ.Kind() == reflect.Pointer {
			return true
		}
	}
	return false
}
