package bundle

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two residues of legacy chain A and one atom of legacy chain B, plus
// records the remapper must pass through untouched.
const testMember = `HEADER    VIRAL PROTEIN                           01-JAN-13   1ABC
REMARK   2 RESOLUTION. 2.00 ANGSTROMS.
ATOM      1  N   MET A   1      11.104  13.207   2.100  1.00  0.00           N
ATOM      2  CA  MET A   1      12.560  13.329   2.262  1.00  0.00           C
ATOM      3  N   GLY B   2       1.000   2.000   3.000  1.00  0.00           N
HETATM    4  O   HOH A 101       5.000   6.000   7.000  1.00  0.00           O
TER       5      MET A   1
END
`

func remapString(t *testing.T, in, chain string, legacy byte) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Remap(&out, strings.NewReader(in), chain, legacy))
	return out.String()
}

func TestRemapSingleChar(t *testing.T) {
	got := remapString(t, testMember, "Q", 'A')
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	require.Len(t, lines, 7) // chain B atom dropped
	assert.True(t, strings.HasPrefix(lines[0], "HEADER"))
	assert.True(t, strings.HasPrefix(lines[1], "REMARK"))
	for _, line := range lines[2:5] {
		assert.Equal(t, byte('Q'), line[ChainColumn], "line %q", line)
	}

	// Everything but the chain column is untouched.
	orig := strings.Split(testMember, "\n")[2]
	assert.Equal(t, orig[:ChainColumn], lines[2][:ChainColumn])
	assert.Equal(t, orig[ChainColumn+1:], lines[2][ChainColumn+1:])
}

func TestRemapTwoChars(t *testing.T) {
	got := remapString(t, testMember, "XY", 'A')
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if !isAtomRecord([]byte(line)) {
			continue
		}
		assert.Equal(t, byte('X'), line[ChainColumn-1], "line %q", line)
		assert.Equal(t, byte('Y'), line[ChainColumn], "line %q", line)
	}
}

func TestRemapOverflow(t *testing.T) {
	got := remapString(t, testMember, "LONGCHAIN", 'A')
	orig := strings.Split(testMember, "\n")[2]

	var atomLines []string
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if isAtomRecord([]byte(line)) {
			atomLines = append(atomLines, line)
		}
	}
	require.Len(t, atomLines, 3)
	for _, line := range atomLines {
		assert.Equal(t, byte(OverflowSentinel), line[ChainColumn], "line %q", line)
		assert.True(t, strings.HasSuffix(line, "LONGCHAIN"), "line %q", line)
	}
	// The identifier is appended after the original record content.
	assert.Equal(t, orig[ChainColumn+1:], atomLines[0][ChainColumn+1:len(orig)])
}

func TestRemapDropsOtherChains(t *testing.T) {
	got := remapString(t, testMember, "Z", 'B')
	assert.NotContains(t, got, "MET A   1      11.104")
	assert.NotContains(t, got, "HOH")
	assert.Contains(t, got, "GLY")
	assert.Contains(t, got, "HEADER")

	// TER is not an atom record and passes through untouched, even though
	// it mentions the dropped chain.
	assert.Contains(t, got, "TER       5      MET A   1")
}

func TestRemapIdentity(t *testing.T) {
	// Requesting the legacy identifier itself leaves every kept record
	// byte-identical to its input.
	got := remapString(t, testMember, "A", 'A')
	want := `HEADER    VIRAL PROTEIN                           01-JAN-13   1ABC
REMARK   2 RESOLUTION. 2.00 ANGSTROMS.
ATOM      1  N   MET A   1      11.104  13.207   2.100  1.00  0.00           N
ATOM      2  CA  MET A   1      12.560  13.329   2.262  1.00  0.00           C
HETATM    4  O   HOH A 101       5.000   6.000   7.000  1.00  0.00           O
TER       5      MET A   1
END
`
	assert.Equal(t, want, got)
}

func TestRemapShortRecord(t *testing.T) {
	var out bytes.Buffer
	err := Remap(&out, strings.NewReader("ATOM      1  N   MET\n"), "B", 'A')
	assert.ErrorIs(t, err, ErrShortRecord)
}

func TestRemapEmptyChain(t *testing.T) {
	var out bytes.Buffer
	err := Remap(&out, strings.NewReader(testMember), "", 'A')
	assert.Error(t, err)
}
