package lexspec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
# sample lexer definition
{ime} [a-z][a-z]*
{broj} [0-9][0-9]*

%X S_POCETNO S_STRING

%L IDN BROJ NIZ_ZNAKOVA

%S S_POCETNO

<S_POCETNO>{ime} { IDN }
<S_POCETNO>{broj} { BROJ }
<S_POCETNO>\" { UDJI_U_STANJE S_STRING - }
<S_STRING>\" { NIZ_ZNAKOVA UDJI_U_STANJE S_POCETNO }
<S_POCETNO>\n { NOVI_REDAK - }
`

func TestParseSample(t *testing.T) {
	sp, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"S_POCETNO", "S_STRING"}, sp.States)
	assert.Equal(t, []string{"IDN", "BROJ", "NIZ_ZNAKOVA"}, sp.Tokens)
	assert.Equal(t, "S_POCETNO", sp.StartState)
	assert.Equal(t, "[a-z][a-z]*", sp.Macros["ime"])

	rules := sp.StateRules("S_POCETNO")
	require.Len(t, rules, 4)
	assert.Equal(t, "IDN", rules[0].Token)
	assert.Equal(t, 0, rules[0].Priority)
	assert.Equal(t, "BROJ", rules[1].Token)

	enterString := rules[2]
	assert.Equal(t, `\"`, enterString.Pattern)
	require.Len(t, enterString.Actions, 2)
	assert.Equal(t, ActionEnterState, enterString.Actions[0].Kind)
	assert.Equal(t, "S_STRING", enterString.Actions[0].State)
	assert.Equal(t, ActionSkip, enterString.Actions[1].Kind)

	stringRules := sp.StateRules("S_STRING")
	require.Len(t, stringRules, 1)
	assert.Equal(t, "NIZ_ZNAKOVA", stringRules[0].Token)
	assert.Equal(t, ActionEnterState, stringRules[0].Actions[0].Kind)
}

func TestParseRejectsUndeclaredState(t *testing.T) {
	bad := "%X A\n%L T\n<B>x { T }\n"
	_, err := Parse(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestParseRejectsUndefinedToken(t *testing.T) {
	bad := "%X A\n%L T\n<A>x { NOPE }\n"
	_, err := Parse(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestParseDefaultsStartStateToFirstDeclared(t *testing.T) {
	ok := "%X FIRST SECOND\n%L T\n<FIRST>x { T }\n"
	sp, err := Parse(strings.NewReader(ok))
	require.NoError(t, err)
	assert.Equal(t, "FIRST", sp.StartState)
}
