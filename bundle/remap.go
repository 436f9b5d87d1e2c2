package bundle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ChainColumn is the byte offset of the chain identifier in a legacy
// ATOM/HETATM record (column 22 in the format's 1-based numbering). A
// 2-character chain identifier is packed into this byte and the one before
// it.
const ChainColumn = 21

// OverflowSentinel is written to the chain-ID column when the chain
// identifier is too long to pack into the two available columns. The full
// identifier is then appended after the record's last column.
const OverflowSentinel = '%'

// ErrShortRecord is returned when an ATOM/HETATM record is too short to
// carry a chain identifier. The input is assumed to already conform to the
// legacy fixed-column layout, so a short record means the member file is
// corrupt; the remapper stops rather than skip the record and silently
// produce an incomplete structure.
var ErrShortRecord = errors.New("atom record too short for chain-ID column")

// Remap copies the records of a single chain from a bundle member file to w,
// translating the legacy chain identifier back to the identifier the caller
// requested.
//
// Lines that are not ATOM/HETATM records are copied through unchanged.
// ATOM/HETATM records whose chain column does not hold legacy belong to a
// different chain in the same member file and are dropped. Matching records
// are rewritten according to the length of chain:
//
//	1 character:   written into the chain-ID column.
//	2 characters:  packed into the chain-ID column and the column before it.
//	3 or more:     the chain-ID column is set to OverflowSentinel and the
//	               identifier is appended verbatim to the end of the record.
//
// All other columns pass through untouched.
func Remap(w io.Writer, r io.Reader, chain string, legacy byte) error {
	if len(chain) == 0 {
		return errors.New("empty chain identifier")
	}

	out := bufio.NewWriter(w)
	buf := bufio.NewReaderSize(r, 1000)
	for lineNum := 1; ; lineNum++ {
		// Member file records never exceed the reader's buffer size, so
		// isPrefix is ignored here just as it is when parsing PDB entries.
		line, _, err := buf.ReadLine()
		if err == io.EOF && len(line) == 0 {
			break
		} else if err != nil && err != io.EOF {
			return err
		}

		if !isAtomRecord(line) {
			if err := writeLine(out, line); err != nil {
				return err
			}
			continue
		}
		if len(line) <= ChainColumn {
			return fmt.Errorf("line %d: %w", lineNum, ErrShortRecord)
		}
		if line[ChainColumn] != legacy {
			continue
		}

		// ReadLine yields a slice of the reader's internal buffer; copy
		// before rewriting it.
		rec := make([]byte, len(line), len(line)+len(chain))
		copy(rec, line)
		switch {
		case len(chain) > 2:
			rec[ChainColumn] = OverflowSentinel
			rec = append(rec, chain...)
		case len(chain) == 2:
			rec[ChainColumn-1] = chain[0]
			rec[ChainColumn] = chain[1]
		default:
			rec[ChainColumn] = chain[0]
		}
		if err := writeLine(out, rec); err != nil {
			return err
		}
	}
	return out.Flush()
}

func isAtomRecord(line []byte) bool {
	return bytes.HasPrefix(line, []byte("ATOM")) ||
		bytes.HasPrefix(line, []byte("HETATM"))
}

func writeLine(w *bufio.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
