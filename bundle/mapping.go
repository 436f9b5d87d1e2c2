package bundle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrChainNotFound is returned by Mapping.Lookup when the requested chain
// identifier is not listed in the bundle's mapping file.
var ErrChainNotFound = errors.New("chain not found in bundle mapping")

// A Mapping holds the lookup tables built from a bundle's chain-ID mapping
// file. For every chain identifier of the entry, it records the bundle
// member file holding that chain's records and the single-character legacy
// identifier used inside that member file.
type Mapping struct {
	memberFile map[string]string
	legacyCode map[string]byte
}

// Lookup returns the member file and legacy identifier for the chain given.
// If the chain is not listed in the mapping file, an error wrapping
// ErrChainNotFound is returned; callers must treat that as fatal for the
// retrieval rather than fall back to an empty file name.
func (m *Mapping) Lookup(chain string) (memberFile string, legacy byte, err error) {
	memberFile, ok := m.memberFile[chain]
	if !ok {
		return "", 0, fmt.Errorf("chain %q: %w", chain, ErrChainNotFound)
	}
	return memberFile, m.legacyCode[chain], nil
}

// Chains returns the sorted chain identifiers listed in the mapping file.
func (m *Mapping) Chains() []string {
	chains := make([]string, 0, len(m.memberFile))
	for chain := range m.memberFile {
		chains = append(chains, chain)
	}
	sort.Strings(chains)
	return chains
}

// The mapping file is a sequence of blocks. Each block starts with a header
// line naming a member file (recognized by the "pdb-bundle" substring and
// terminated by a delimiter character), followed by two-token data lines
// "<legacy> <chain>" until the next header. The parser is a two-state
// machine: before the first header, data lines have no member file to attach
// to and are ignored.
type parseState int

const (
	awaitingHeader parseState = iota
	insideBlock
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeader
	lineData
	lineJunk
)

// classify decides what a trimmed mapping-file line is. A data line is two
// whitespace-separated tokens whose first token is a single character; the
// second token (the chain identifier) may be longer.
func classify(line []byte) (lineKind, []byte, []byte) {
	if len(line) == 0 {
		return lineBlank, nil, nil
	}
	if bytes.Contains(line, []byte("pdb-bundle")) {
		// Drop the trailing delimiter from the member file name.
		return lineHeader, line[:len(line)-1], nil
	}
	fields := bytes.Fields(line)
	if len(fields) == 2 && len(fields[0]) == 1 {
		return lineData, fields[0], fields[1]
	}
	return lineJunk, nil, nil
}

// ReadMapping parses a bundle chain-ID mapping file into a Mapping.
//
// Data lines seen before any header line are skipped, since there is no
// member file to associate them with. A chain listed twice keeps its last
// association, matching the block structure of the file.
func ReadMapping(r io.Reader) (*Mapping, error) {
	m := &Mapping{
		memberFile: make(map[string]string, 4),
		legacyCode: make(map[string]byte, 4),
	}

	state := awaitingHeader
	curFile := ""
	buf := bufio.NewReader(r)
	for {
		line, err := buf.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		done := err == io.EOF

		kind, tok1, tok2 := classify(bytes.TrimSpace(line))
		switch kind {
		case lineHeader:
			curFile = string(tok1)
			state = insideBlock
		case lineData:
			if state == insideBlock && len(curFile) > 0 {
				chain := string(tok2)
				m.legacyCode[chain] = tok1[0]
				m.memberFile[chain] = curFile
			}
		}

		if done {
			return m, nil
		}
	}
}
