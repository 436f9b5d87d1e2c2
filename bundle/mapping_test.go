package bundle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapping = `    New chain ID            Original chain ID
6sg9-pdb-bundle1.pdb:
           A                    AAA
           B                    BBB

6sg9-pdb-bundle2.pdb:
           A                    CA
           B                    Q
`

func TestReadMapping(t *testing.T) {
	m, err := ReadMapping(strings.NewReader(testMapping))
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB", "CA", "Q"}, m.Chains())

	file, legacy, err := m.Lookup("AAA")
	require.NoError(t, err)
	assert.Equal(t, "6sg9-pdb-bundle1.pdb", file)
	assert.Equal(t, byte('A'), legacy)

	file, legacy, err = m.Lookup("CA")
	require.NoError(t, err)
	assert.Equal(t, "6sg9-pdb-bundle2.pdb", file)
	assert.Equal(t, byte('A'), legacy)

	file, legacy, err = m.Lookup("Q")
	require.NoError(t, err)
	assert.Equal(t, "6sg9-pdb-bundle2.pdb", file)
	assert.Equal(t, byte('B'), legacy)
}

func TestReadMappingMiss(t *testing.T) {
	m, err := ReadMapping(strings.NewReader(testMapping))
	require.NoError(t, err)

	_, _, err = m.Lookup("ZZZ")
	assert.ErrorIs(t, err, ErrChainNotFound)
}

// Data lines seen before any header have no member file to attach to and
// must not end up in the tables.
func TestReadMappingDataBeforeHeader(t *testing.T) {
	in := "A B\n1abc-pdb-bundle1.pdb:\nC D\n"
	m, err := ReadMapping(strings.NewReader(in))
	require.NoError(t, err)

	_, _, err = m.Lookup("B")
	assert.ErrorIs(t, err, ErrChainNotFound)

	file, legacy, err := m.Lookup("D")
	require.NoError(t, err)
	assert.Equal(t, "1abc-pdb-bundle1.pdb", file)
	assert.Equal(t, byte('C'), legacy)
}

func TestReadMappingEmpty(t *testing.T) {
	m, err := ReadMapping(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Chains())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		kind lineKind
	}{
		{"", lineBlank},
		{"1abc-pdb-bundle1.pdb:", lineHeader},
		{"A B", lineData},
		{"A BCDE", lineData},
		{"New chain ID Original chain ID", lineJunk},
		{"AB CD", lineJunk},
	}
	for _, tt := range tests {
		kind, _, _ := classify([]byte(tt.line))
		assert.Equal(t, tt.kind, kind, "line %q", tt.line)
	}
}
