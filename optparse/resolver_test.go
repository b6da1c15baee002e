package optparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type resolverOptions struct {
	Name    string `option:"name" short:"n"`
	Mode    string `option:"mode" arg:"optional"`
	Quiet   bool   `option:"quiet" short:"q"`
	Count   int    `option:"count" short:"c"`
}

type step struct {
	option     string
	value      string
	hasValue   bool
	positional string
}

func resolveAll(t *testing.T, args ...string) ([]step, error) {
	t.Helper()
	reg, err := RegistryFor[resolverOptions]()
	require.NoError(t, err)

	r := &resolver{reg: reg, tokens: NewTokenizer(args)}
	var steps []step
	for {
		opt, tok, isOption, ok, err := r.next()
		if err != nil {
			return steps, err
		}
		if !ok {
			return steps, nil
		}
		if isOption {
			steps = append(steps, step{option: opt.desc.Long(), value: opt.value, hasValue: opt.hasValue})
		} else {
			steps = append(steps, step{positional: tok.Raw})
		}
	}
}

func TestResolver_Sequence(t *testing.T) {
	t.Parallel()
	steps, err := resolveAll(t, "-n", "bob", "file", "--mode", "-q", "--mode=fast", "--", "--name")
	require.NoError(t, err)
	require.Equal(t, []step{
		{option: "name", value: "bob", hasValue: true},
		{positional: "file"},
		{option: "mode"},
		{option: "quiet"},
		{option: "mode", value: "fast", hasValue: true},
		{positional: "--name"},
	}, steps)
}

func TestResolver_RequiredStopsAtKnownOption(t *testing.T) {
	t.Parallel()
	_, err := resolveAll(t, "--name", "-q")
	require.ErrorIs(t, err, ErrOptionArgument)

	steps, err := resolveAll(t, "--name", "-z")
	require.NoError(t, err)
	require.Equal(t, []step{{option: "name", value: "-z", hasValue: true}}, steps)
}

func TestResolver_InlineEmptyValue(t *testing.T) {
	t.Parallel()
	steps, err := resolveAll(t, "--name=", "x")
	require.NoError(t, err)
	require.Equal(t, []step{
		{option: "name", value: "", hasValue: true},
		{positional: "x"},
	}, steps)
}

func TestResolver_Suggester(t *testing.T) {
	t.Parallel()
	reg, err := RegistryFor[resolverOptions]()
	require.NoError(t, err)

	var asked []string
	r := &resolver{reg: reg, tokens: NewTokenizer([]string{"-z", "--nme"}), suggester: func(name string) string {
		asked = append(asked, name)
		return "--name"
	}}

	_, _, _, _, err = r.next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Empty(t, perr.Suggestion, "short references get no suggestion")

	_, _, _, _, err = r.next()
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "--name", perr.Suggestion)
	require.Equal(t, []string{"nme"}, asked)
}
