package benchmark

import (
	"reflect"
	"testing"
	"time"

	"github.com/dzonerzy/go-optparse/optparse"
)

// Category: parser

type simpleOptions struct {
	Port    int  `option:"port" short:"p" default:"8080"`
	Verbose bool `option:"verbose" short:"v"`
}

type Protocol uint8

func (Protocol) Enumeration() optparse.EnumSpec {
	return optparse.EnumSpec{Flags: true, Members: []optparse.EnumMember{
		{Name: "none", Value: 0},
		{Name: "http", Value: 1},
		{Name: "grpc", Value: 2},
		{Name: "ws", Value: 4},
	}}
}

type complexOptions struct {
	Host      string        `option:"host" short:"H" default:"localhost"`
	Port      int           `option:"port" short:"p" default:"8080"`
	Timeout   time.Duration `option:"timeout" default:"30s"`
	Ratio     *float64      `option:"ratio"`
	Protocols Protocol      `option:"protocol"`
	Include   []string      `option:"include" short:"I"`
	Mode      string        `option:"mode" arg:"optional" default:"auto"`
	HasMode   bool          `present:"mode"`
	Verbose   bool          `option:"verbose" short:"v"`
	Files     []string      `positional:"true"`
}

func BenchmarkParserSimple(b *testing.B) {
	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := optparse.Parse[simpleOptions](args)
		if err != nil || !res.Options.Verbose {
			b.Fatal(err)
		}
	}
}

func BenchmarkParserComplex(b *testing.B) {
	p := optparse.NewParser()
	args := []string{
		"-H", "0.0.0.0", "--port=9000", "--timeout:5s", "--ratio", "0.25",
		"--protocol=http,grpc", "-I", "a", "-I", "b", "--mode", "-v", "--", "x.txt", "y.txt",
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := optparse.ParseWith[complexOptions](p, args)
		if err != nil || len(res.Positional) != 2 {
			b.Fatal(err)
		}
	}
}

func BenchmarkParserShortFlags(b *testing.B) {
	args := []string{"-p", "9000", "-v"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := optparse.Parse[simpleOptions](args); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParserErrorSuggestion(b *testing.B) {
	p := optparse.NewParser(optparse.WithSuggestions(2))
	args := []string{"--verbos"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := optparse.ParseWith[complexOptions](p, args); err == nil {
			b.Fatal("expected error")
		}
	}
}

func BenchmarkParserDefaultSources(b *testing.B) {
	p := optparse.NewParser(optparse.WithDefaults(optparse.MapDefaults{Values: map[string]string{
		"host":     "example.org",
		"timeout":  "1m",
		"protocol": "ws",
	}}))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := optparse.ParseWith[complexOptions](p, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	args := []string{"--host=example.org", "-p", "9000", "--mode", "file", "--", "-x"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = optparse.Tokenize(args)
	}
}

func BenchmarkBuildRegistry(b *testing.B) {
	typ := reflect.TypeOf(complexOptions{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := optparse.BuildRegistry(typ); err != nil {
			b.Fatal(err)
		}
	}
}
