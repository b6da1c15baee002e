package optparse

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/huandu/xstrings"
)

const (
	optionTag     = "option"
	shortTag      = "short"
	argTag        = "arg"
	defaultTag    = "default"
	envTag        = "env"
	presentTag    = "present"
	positionalTag = "positional"
)

// Argument is the argument requirement of an option.
type Argument int

const (
	ArgRequired Argument = iota
	ArgOptional
	ArgNone
)

func (a Argument) String() string {
	switch a {
	case ArgRequired:
		return "required"
	case ArgOptional:
		return "optional"
	case ArgNone:
		return "none"
	default:
		return "Argument(" + strconv.Itoa(int(a)) + ")"
	}
}

// ParseArgument parses the value of an `arg` tag.
func ParseArgument(s string) (Argument, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "required":
		return ArgRequired, nil
	case "optional":
		return ArgOptional, nil
	case "none":
		return ArgNone, nil
	}
	return 0, fmt.Errorf("invalid argument requirement %q, expected none, optional or required", s)
}

// fieldRole is what a struct field contributes to the registry.
type fieldRole int

const (
	roleIgnored fieldRole = iota
	roleOption
	rolePresence
	rolePositional
)

// fieldTags holds the raw tag values of one field.
type fieldTags struct {
	role       fieldRole
	long       string
	short      string
	hasShort   bool
	arg        string
	hasArg     bool
	def        string
	hasDefault bool
	env        string
	present    string
}

// readFieldTags classifies a field by its tags and rejects contradictory combinations.
func readFieldTags(field reflect.StructField) (fieldTags, error) {
	var tags fieldTags
	tag := field.Tag

	long, hasOption := tag.Lookup(optionTag)
	if long == "-" {
		return tags, nil
	}
	present, hasPresent := tag.Lookup(presentTag)
	positional, hasPositional := tag.Lookup(positionalTag)
	tags.short, tags.hasShort = tag.Lookup(shortTag)
	tags.arg, tags.hasArg = tag.Lookup(argTag)
	tags.def, tags.hasDefault = tag.Lookup(defaultTag)
	tags.env = tag.Get(envTag)

	isPositional := false
	if hasPositional {
		var err error
		if isPositional, err = strconv.ParseBool(positional); err != nil {
			return tags, fmt.Errorf("invalid %q tag bool value: %q", positionalTag, positional)
		}
	}

	roles := 0
	for _, has := range []bool{hasOption, hasPresent, isPositional} {
		if has {
			roles++
		}
	}
	if roles > 1 {
		return tags, fmt.Errorf("only one of %q, %q, %q tags can be used", optionTag, presentTag, positionalTag)
	}

	if !hasOption {
		for name, has := range map[string]bool{
			shortTag:   tags.hasShort,
			argTag:     tags.hasArg,
			defaultTag: tags.hasDefault,
			envTag:     tags.env != "",
		} {
			if has {
				return tags, fmt.Errorf("%q tag can be used only with %q tag", name, optionTag)
			}
		}
	}

	switch {
	case hasOption:
		tags.role = roleOption
		tags.long = strings.TrimSpace(long)
		if tags.long == "" {
			tags.long = xstrings.ToKebabCase(field.Name)
		}
	case hasPresent:
		tags.role = rolePresence
		tags.present = strings.TrimSpace(present)
	case isPositional:
		tags.role = rolePositional
	}
	return tags, nil
}

// validateLongName rejects names the tokenizer could never produce.
func validateLongName(name string) error {
	if name == "" {
		return fmt.Errorf("long name must not be empty")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("long name %q must not start with a dash", name)
	}
	if strings.ContainsAny(name, "=:") {
		return fmt.Errorf("long name %q must not contain '=' or ':'", name)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("long name %q must not contain whitespace", name)
	}
	return nil
}

// parseShortName returns the single rune of a short tag.
func parseShortName(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("short name %q must be exactly one character", s)
	}
	if r == '-' || r == '=' || r == ':' || unicode.IsSpace(r) {
		return 0, fmt.Errorf("short name %q is not allowed", s)
	}
	return r, nil
}
