package filter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPDB = `HEADER    HYDROLASE                               01-JAN-13   1ABC
REMARK   2 RESOLUTION. 2.00 ANGSTROMS.
MODEL        1
ATOM      1  N   MET A   1      11.104  13.207   2.100  1.00  0.00           N
ATOM      2  CA  MET A   1      12.560  13.329   2.262  1.00  0.00           C
ATOM      3  CA  GLY B   2       1.000   2.000   3.000  1.00  0.00           C
HETATM    4  O   HOH A 101       5.000   6.000   7.000  1.00  0.00           O
TER       5      MET A   1
ENDMDL
MODEL        2
ATOM      6  N   MET A   1      11.204  13.307   2.200  1.00  0.00           N
ENDMDL
END
`

func filterPDBString(t *testing.T, in string, sel Selector) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, FilterPDB(&out, strings.NewReader(in), sel))
	return out.String()
}

func TestFilterPDBChain(t *testing.T) {
	got := filterPDBString(t, testPDB, NewChainSelect("A"))

	assert.Contains(t, got, "HEADER")
	assert.Contains(t, got, "REMARK")
	assert.Contains(t, got, "ATOM      1")
	assert.Contains(t, got, "ATOM      2")
	assert.NotContains(t, got, "GLY")
	assert.NotContains(t, got, "HOH")
	assert.Contains(t, got, "TER")
	assert.Contains(t, got, "END\n")

	// Only the first model survives.
	assert.NotContains(t, got, "ATOM      6")
	assert.NotContains(t, got, "MODEL        2")
	assert.Contains(t, got, "MODEL        1")
}

func TestFilterPDBAtomName(t *testing.T) {
	got := filterPDBString(t, testPDB, NewChainAtomSelect("A", "CA"))
	assert.NotContains(t, got, "ATOM      1")
	assert.Contains(t, got, "ATOM      2")
}

func TestFilterPDBSecondModel(t *testing.T) {
	sel := NewChainSelect("A")
	sel.ModelIndex = 1
	got := filterPDBString(t, testPDB, sel)
	assert.Contains(t, got, "ATOM      6")
	assert.NotContains(t, got, "ATOM      1")
	assert.Contains(t, got, "MODEL        2")
	assert.NotContains(t, got, "MODEL        1")
}

// Files without MODEL records have a single model with index 0.
func TestFilterPDBNoModelRecords(t *testing.T) {
	in := "ATOM      1  N   MET A   1      11.104  13.207   2.100  1.00  0.00           N\n"
	got := filterPDBString(t, in, NewChainSelect("A"))
	assert.Contains(t, got, "ATOM      1")
}

func TestFilterPDBShortAtomRecord(t *testing.T) {
	var out bytes.Buffer
	err := FilterPDB(&out, strings.NewReader("ATOM      1  N   MET\n"),
		NewChainSelect("A"))
	assert.Error(t, err)
}

func TestRecordCols(t *testing.T) {
	r := record("ATOM      1  N   MET A   1      11.104")
	assert.Equal(t, "ATOM", r.cols(1, 6))
	assert.Equal(t, "MET", r.cols(18, 20))
	assert.Equal(t, byte('A'), r.at(22))
	assert.Equal(t, 1, r.atoi(23, 26))
	assert.Equal(t, 11.104, r.atof(31, 38))

	// Out of range access is harmless.
	assert.Equal(t, "", r.cols(70, 80))
	assert.Equal(t, byte(0), r.at(80))
}
