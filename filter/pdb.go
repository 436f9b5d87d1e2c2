package filter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/TuftsBCB/structure"
)

// record is a single line of a legacy fixed-column PDB file. Columns are
// numbered from 1, the way the PDB format documents them.
type record []byte

// cols returns the text in the inclusive column range [start, end] with
// surrounding whitespace trimmed. Out of range columns yield an empty
// string.
func (r record) cols(start, end int) string {
	rs, re := start-1, end
	if rs >= len(r) || rs < 0 {
		return ""
	}
	if re > len(r) || re < 0 || re < rs {
		return ""
	}
	return string(bytes.TrimSpace(r[rs:re]))
}

// at returns the byte in the given column, or 0 if the record is too short.
func (r record) at(column int) byte {
	i := column - 1
	if i < 0 || i >= len(r) {
		return 0
	}
	return r[i]
}

func (r record) atoi(start, end int) int {
	n, _ := strconv.Atoi(r.cols(start, end))
	return n
}

func (r record) atof(start, end int) float64 {
	f, _ := strconv.ParseFloat(r.cols(start, end), 64)
	return f
}

// atom builds the Atom offered to a Selector from an ATOM/HETATM record.
// Coordinates are parsed on a best effort basis; a record with junk in a
// coordinate column keeps a zero value there.
func (r record) atom(het bool) Atom {
	res := Residue{
		Name:   r.cols(18, 20),
		SeqNum: r.atoi(23, 26),
		Het:    het,
	}
	return Atom{
		Name:    r.cols(13, 16),
		Residue: res,
		Coords: structure.Coords{
			X: r.atof(31, 38),
			Y: r.atof(39, 46),
			Z: r.atof(47, 54),
		},
	}
}

// FilterPDB copies a legacy fixed-column PDB file from r to w, keeping only
// the ATOM, HETATM and TER records accepted by sel. Records of any other
// type pass through unchanged, so headers and remarks survive filtering.
//
// MODEL/ENDMDL records delimit models; the records of a model rejected by
// sel, including the delimiters themselves, are dropped. An ATOM/HETATM
// record too short to carry a chain identifier is a data-integrity error
// and aborts the copy.
func FilterPDB(w io.Writer, r io.Reader, sel Selector) error {
	out := bufio.NewWriter(w)
	buf := bufio.NewReaderSize(r, 1000)

	model := 0
	seenModel := false
	for lineNum := 1; ; lineNum++ {
		// Lines longer than the buffer do not occur in this format, so
		// isPrefix is ignored.
		line, _, err := buf.ReadLine()
		if err == io.EOF && len(line) == 0 {
			break
		} else if err != nil && err != io.EOF {
			return err
		}

		rec := record(line)
		keep := true
		switch rec.cols(1, 6) {
		case "MODEL":
			if seenModel {
				model++
			} else {
				seenModel = true
			}
			keep = sel.Model(model)
		case "ENDMDL":
			keep = sel.Model(model)
		case "ATOM", "HETATM":
			if len(line) <= 21 {
				return fmt.Errorf(
					"line %d: atom record too short for chain identifier",
					lineNum)
			}
			het := rec.at(1) == 'H'
			keep = sel.Model(model) &&
				sel.Chain(string(rec.at(22))) &&
				sel.Residue(rec.atom(het).Residue) &&
				sel.Atom(rec.atom(het))
		case "TER":
			keep = sel.Model(model) && sel.Chain(string(rec.at(22)))
		}
		if !keep {
			continue
		}
		if _, err := out.Write(line); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}
