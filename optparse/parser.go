package optparse

import (
	"fmt"
	"reflect"

	optio "github.com/dzonerzy/go-optparse/io"
	"github.com/dzonerzy/go-optparse/internal/fuzzy"
)

// ParseState is the lifecycle stage of a single parse.
type ParseState int

const (
	StateInit ParseState = iota
	StateConsumingTokens
	StateValidating
	StateDone
	StateFailed
)

func (s ParseState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConsumingTokens:
		return "consuming-tokens"
	case StateValidating:
		return "validating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("ParseState(%d)", int(s))
	}
}

// Validator is implemented by option structs that check themselves after parsing.
// The error is returned from the parse unchanged.
type Validator interface {
	Validate() error
}

// Result is a populated options struct plus the positional values, in order.
type Result[T any] struct {
	Options    *T
	Positional []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger traces resolved references and applied defaults at debug level.
func WithLogger(logger *optio.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithDefaults appends default sources, consulted in order after `default` tags.
func WithDefaults(sources ...DefaultSource) Option {
	return func(p *Parser) { p.sources = append(p.sources, sources...) }
}

// WithSuggestions enables "did you mean" hints for unknown long options
// within maxDistance edits. Zero or less disables them.
func WithSuggestions(maxDistance int) Option {
	return func(p *Parser) { p.maxDistance = maxDistance }
}

// WithStateHook calls fn on every state transition.
func WithStateHook(fn func(ParseState)) Option {
	return func(p *Parser) { p.onState = fn }
}

// Parser holds parse configuration. It is immutable after NewParser and safe
// for concurrent use.
type Parser struct {
	logger      *optio.Logger
	sources     []DefaultSource
	maxDistance int
	onState     func(ParseState)
}

// NewParser builds a parser from options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses args into a new T.
func Parse[T any](args []string, opts ...Option) (*Result[T], error) {
	return ParseWith[T](NewParser(opts...), args)
}

// ParseWith parses args into a new T using p.
func ParseWith[T any](p *Parser, args []string) (*Result[T], error) {
	target := new(T)
	positional, err := p.ParseInto(target, args)
	if err != nil {
		return nil, err
	}
	return &Result[T]{Options: target, Positional: positional}, nil
}

// ParseInto parses args into target, a non-nil pointer to a tagged struct.
// Values already in target act as the lowest-precedence defaults.
// It returns the positional values in order.
func (p *Parser) ParseInto(target any, args []string) ([]string, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, &ParseError{
			Type:    ErrorTypeInvalidDeclaration,
			Message: fmt.Sprintf("target must be a non-nil pointer to struct, got %T", target),
		}
	}

	run := &parseRun{parser: p, target: target, root: rv.Elem()}
	if p.onState != nil {
		p.onState(StateInit)
	}
	positional, err := run.execute(args)
	if err != nil {
		run.transition(StateFailed)
		return nil, err
	}
	return positional, nil
}

// parseRun is the mutable state of one ParseInto call.
type parseRun struct {
	parser  *Parser
	target  any
	root    reflect.Value
	reg     *Registry
	state   ParseState
	touched map[*Descriptor]bool
}

func (r *parseRun) transition(next ParseState) {
	r.parser.logger.Debug("parse state %s -> %s", r.state, next)
	r.state = next
	if r.parser.onState != nil {
		r.parser.onState(next)
	}
}

func (r *parseRun) execute(args []string) ([]string, error) {
	reg, err := registryOf(r.root.Type())
	if err != nil {
		return nil, err
	}
	r.reg = reg
	r.touched = make(map[*Descriptor]bool)

	if err := r.applyDefaults(); err != nil {
		return nil, err
	}

	r.transition(StateConsumingTokens)
	res := &resolver{reg: reg, tokens: NewTokenizer(args)}
	if r.parser.maxDistance > 0 {
		names := reg.LongNames()
		res.suggester = func(name string) string {
			if best := fuzzy.FindBestFlag(name, names, r.parser.maxDistance); best != "" {
				return "--" + best
			}
			return ""
		}
	}

	var positional []string
	for {
		opt, tok, isOption, ok, err := res.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if !isOption {
			positional = append(positional, tok.Raw)
			continue
		}
		if err := r.assign(opt); err != nil {
			return nil, err
		}
	}
	r.parser.logger.Debug("collected %d positional values", len(positional))

	if len(positional) > 0 && !reg.HasPositionalSink() {
		return nil, newUnexpectedPositionalError(positional[0])
	}
	if reg.HasPositionalSink() {
		r.root.FieldByIndex(reg.positional).Set(reflect.ValueOf(positional))
	}

	r.transition(StateValidating)
	if v, ok := r.target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	r.transition(StateDone)
	return positional, nil
}

// applyDefaults resets presence flags, then layers `default` tags and the
// configured sources over the target's current values.
func (r *parseRun) applyDefaults() error {
	for _, desc := range r.reg.descriptors {
		for _, idx := range desc.presence {
			r.root.FieldByIndex(idx).SetBool(false)
		}
		if desc.hasDefault {
			r.root.FieldByIndex(desc.index).Set(cloneValue(desc.defaultValue))
		}
	}

	for _, src := range r.parser.sources {
		for _, desc := range r.reg.descriptors {
			raw, ok := src.Lookup(desc)
			if !ok {
				continue
			}
			value, err := desc.convertAll(raw)
			if err != nil {
				return &ParseError{
					Type:    ErrorTypeOptionArgument,
					Reason:  ReasonInvalidValue,
					Message: fmt.Sprintf("invalid value %q for option %s from %s", raw, desc.Display(), src.Name()),
					Option:  desc.Display(),
					Value:   raw,
					Cause:   err,
				}
			}
			r.root.FieldByIndex(desc.index).Set(value)
			r.parser.logger.Debug("default %s=%q from %s", desc.Display(), raw, src.Name())
		}
	}
	return nil
}

// assign stores one resolved reference into the target.
func (r *parseRun) assign(opt resolved) error {
	desc := opt.desc
	for _, idx := range desc.presence {
		r.root.FieldByIndex(idx).SetBool(true)
	}
	field := r.root.FieldByIndex(desc.index)

	if !opt.hasValue {
		if desc.argument == ArgNone {
			setTrue(field)
		}
		r.parser.logger.Debug("option %s set", desc.Display())
		return nil
	}

	value, err := desc.convert(opt.value)
	if err != nil {
		return newInvalidValueError(opt.raw, opt.value, err)
	}
	if desc.kind == convertSlice {
		if !r.touched[desc] {
			field.Set(reflect.MakeSlice(desc.fieldType, 0, 1))
			r.touched[desc] = true
		}
		field.Set(reflect.Append(field, value))
	} else {
		field.Set(value)
	}
	r.parser.logger.Debug("option %s=%q", desc.Display(), opt.value)
	return nil
}

func setTrue(field reflect.Value) {
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().SetBool(true)
		field.Set(ptr)
		return
	}
	field.SetBool(true)
}

// cloneValue copies v so parses never share pointers or backing arrays with
// the registry's converted defaults.
func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		ptr := reflect.New(v.Type().Elem())
		ptr.Elem().Set(v.Elem())
		return ptr
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(out, v)
		return out
	}
	return v
}
