package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input  string
		expect Kind
		hasErr bool
	}{
		{input: "eip", expect: KindPrimary},
		{input: "EIP", expect: KindPrimary},
		{input: "primary", expect: KindPrimary},
		{input: " erc ", expect: KindDerived},
		{input: "derived", expect: KindDerived},
		{input: "bip", hasErr: true},
		{input: "", hasErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseKind(tc.input)
			if tc.hasErr {
				require.ErrorIs(t, err, ErrUnsupportedKind)
				assert.False(t, got.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestKind_Fields(t *testing.T) {
	assert.Equal(t, "eip", KindPrimary.String())
	assert.Equal(t, "eip-", KindPrimary.Marker())
	assert.Equal(t, "eip", KindPrimary.IDField())
	assert.Equal(t, "", KindPrimary.FallbackIDField())
	assert.Equal(t, "EIP", KindPrimary.Prefix())

	assert.Equal(t, "erc", KindDerived.String())
	assert.Equal(t, "erc-", KindDerived.Marker())
	assert.Equal(t, "erc", KindDerived.IDField())
	assert.Equal(t, "eip", KindDerived.FallbackIDField())
	assert.Equal(t, "ERC", KindDerived.Prefix())
}

func TestParseTiers(t *testing.T) {
	all, err := ParseTiers(nil)
	require.NoError(t, err)
	assert.Equal(t, []Tier{{"short", 128}, {"medium", 256}, {"long", 512}}, all)

	picked, err := ParseTiers([]string{"LONG", "short"})
	require.NoError(t, err)
	assert.Equal(t, []Tier{{"short", 128}, {"long", 512}}, picked)

	_, err = ParseTiers([]string{"huge"})
	require.ErrorIs(t, err, ErrUnknownTier)
}

func TestSections(t *testing.T) {
	var labels, headings []string
	for _, s := range Sections() {
		labels = append(labels, s.Label())
		headings = append(headings, s.Heading())
	}
	assert.Equal(t, []string{"SUMMARY", "SPECIFICATION", "MOTIVATION", "RATIONALE"}, labels)
	assert.Equal(t, []string{"Abstract", "Specification", "Motivation", "Rationale"}, headings)
}
