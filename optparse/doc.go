// Package optparse parses command-line arguments into tagged structs.
//
// Each exported field tagged with `option` becomes an option:
//
//	type Options struct {
//		Level   int      `option:"level" short:"l" default:"3"`
//		Output  *string  `option:"output" short:"o" arg:"optional"`
//		Verbose bool     `option:"verbose" short:"v"`
//		Tags    []string `option:"tag" env:"APP_TAGS"`
//		HasOut  bool     `present:"output"`
//		Files   []string `positional:"true"`
//	}
//
//	res, err := optparse.Parse[Options](os.Args[1:])
//
// Accepted syntaxes are --name, --name value, --name=value, --name:value,
// -n, -n value, -n=value and -n:value. A separate value is consumed only by
// options with a required argument. "--" ends option scanning.
//
// Values are converted by field type: strings, bools, integers, floats,
// time.Duration, encoding.TextUnmarshaler implementations, types implementing
// Enumeration, pointers to any of these (left nil when absent) and slices, which
// collect one element per reference.
//
// All failures are *ParseError values matching ErrUnknownOption,
// ErrOptionArgument, ErrDuplicateOption or ErrInvalidDeclaration through errors.Is.
package optparse
