package optparse

// resolved is one option reference matched against the registry.
type resolved struct {
	desc     *Descriptor
	raw      string
	value    string
	hasValue bool
}

// resolver pulls tokens and matches option references against a registry.
type resolver struct {
	reg       *Registry
	tokens    *Tokenizer
	suggester func(name string) string
}

// next returns either a resolved option or a positional token.
// ok is false when the tokens are exhausted.
func (r *resolver) next() (opt resolved, positional Token, isOption bool, ok bool, err error) {
	for {
		tok, more := r.tokens.Next()
		if !more {
			return resolved{}, Token{}, false, false, nil
		}
		switch tok.Kind {
		case TokenTerminator:
			continue
		case TokenPositional:
			return resolved{}, tok, false, true, nil
		}

		desc, known := r.reg.lookup(tok)
		if !known {
			perr := newUnknownOptionError(tok.Raw)
			if r.suggester != nil && tok.Kind == TokenLong {
				perr.Suggestion = r.suggester(tok.Name)
			}
			return resolved{}, Token{}, false, false, perr
		}

		opt = resolved{desc: desc, raw: tok.Raw, value: tok.Value, hasValue: tok.HasValue}
		switch desc.argument {
		case ArgNone:
			if tok.HasValue {
				return resolved{}, Token{}, false, false, newUnexpectedValueError(tok.Raw, tok.Value)
			}
		case ArgOptional:
			// an optional argument is only ever taken inline
		case ArgRequired:
			if tok.HasValue {
				break
			}
			following, exists := r.tokens.Peek()
			if !exists || following.Kind == TokenTerminator || r.isKnownReference(following) {
				return resolved{}, Token{}, false, false, newMissingValueError(tok.Raw)
			}
			r.tokens.Next()
			opt.value = following.Raw
			opt.hasValue = true
		}
		return opt, Token{}, true, true, nil
	}
}

// isKnownReference reports whether tok is an option reference the registry recognizes.
// Unknown references such as "-5" may be consumed as values.
func (r *resolver) isKnownReference(tok Token) bool {
	if !tok.IsOption() {
		return false
	}
	_, known := r.reg.lookup(tok)
	return known
}
