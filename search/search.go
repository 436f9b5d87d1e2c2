package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/TuftsBCB/seq"
)

// ErrNoSequence is returned when an entry has no chain with the identifier
// asked about.
var ErrNoSequence = errors.New("no sequence for chain")

// ChainID names one chain of one entry.
type ChainID struct {
	PDBCode string
	Chain   string
}

func (c ChainID) String() string {
	return c.PDBCode + "_" + c.Chain
}

// MoleculeFilter narrows queries to entities of a particular molecule type.
type MoleculeFilter int

const (
	// Protein keeps protein entities only. This is the zero value.
	Protein MoleculeFilter = iota

	// RNA keeps RNA entities only.
	RNA

	// ProteinOrRNA keeps both.
	ProteinOrRNA
)

// term returns the Solr molecule_type term for the filter.
func (f MoleculeFilter) term() string {
	switch f {
	case RNA:
		return "RNA"
	case ProteinOrRNA:
		return "(Protein OR RNA)"
	}
	return "Protein"
}

// IdenticalChains lists every chain of the given entry belonging to the
// same entity as the chain given, sorted. The chain itself is included. An
// unknown entry or chain yields an empty list.
func (c *Client) IdenticalChains(
	ctx context.Context,
	code, chain string,
) ([]string, error) {
	docs, err := c.solr(ctx,
		joinAND([]selector{{"pdb_id", strings.ToLower(code)}}),
		"pdb_id,entity_id,chain_id,assembly_composition")
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if containsChain(doc.ChainID, chain) {
			chains := append([]string(nil), doc.ChainID...)
			sort.Strings(chains)
			return chains, nil
		}
	}
	return nil, nil
}

// UniqueChains lists one representative chain per entity of the given
// entry, restricted by the molecule filter. The representative is the
// lexicographically first chain of each entity.
func (c *Client) UniqueChains(
	ctx context.Context,
	code string,
	filter MoleculeFilter,
) ([]string, error) {
	docs, err := c.solr(ctx,
		joinAND([]selector{
			{"pdb_id", strings.ToLower(code)},
			{"molecule_type", filter.term()},
		}),
		"pdb_id,entity_id,chain_id,assembly_composition,molecule_type")
	if err != nil {
		return nil, err
	}
	var chains []string
	for _, doc := range docs {
		if ch, ok := firstChain(doc.ChainID); ok {
			chains = append(chains, ch)
		}
	}
	return chains, nil
}

// Sequence returns the one-letter residue sequence of the given chain, as
// deposited. The sequence is named code_chain.
func (c *Client) Sequence(
	ctx context.Context,
	code, chain string,
) (seq.Sequence, error) {
	docs, err := c.solr(ctx,
		joinAND([]selector{{"pdb_id", strings.ToLower(code)}}),
		"pdb_id,entity_id,chain_id,molecule_sequence")
	if err != nil {
		return seq.Sequence{}, err
	}
	for _, doc := range docs {
		if !containsChain(doc.ChainID, chain) {
			continue
		}
		if len(doc.MoleculeSequence) == 0 {
			continue
		}
		s := seq.Sequence{
			Name:     fmt.Sprintf("%s_%s", strings.ToLower(code), chain),
			Residues: make([]seq.Residue, len(doc.MoleculeSequence)),
		}
		for i := 0; i < len(doc.MoleculeSequence); i++ {
			s.Residues[i] = seq.Residue(doc.MoleculeSequence[i])
		}
		return s, nil
	}
	return seq.Sequence{}, fmt.Errorf("%s %s: %w", code, chain, ErrNoSequence)
}

// Released lists one representative chain per entity released in the
// inclusive date range [from, to], restricted by the molecule filter. A
// zero to queries the single day of from.
func (c *Client) Released(
	ctx context.Context,
	from, to time.Time,
	filter MoleculeFilter,
) ([]ChainID, error) {
	docs, err := c.releasedDocs(ctx, from, to, filter)
	if err != nil {
		return nil, err
	}
	var chains []ChainID
	for _, doc := range docs {
		if ch, ok := firstChain(doc.ChainID); ok {
			chains = append(chains, ChainID{PDBCode: doc.PDBID, Chain: ch})
		}
	}
	return chains, nil
}

// ReleasedCodes is like Released but lists entry codes only, without
// duplicates, in the order the service returns them.
func (c *Client) ReleasedCodes(
	ctx context.Context,
	from, to time.Time,
	filter MoleculeFilter,
) ([]string, error) {
	docs, err := c.releasedDocs(ctx, from, to, filter)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(docs))
	var codes []string
	for _, doc := range docs {
		if seen[doc.PDBID] {
			continue
		}
		seen[doc.PDBID] = true
		codes = append(codes, doc.PDBID)
	}
	return codes, nil
}

func (c *Client) releasedDocs(
	ctx context.Context,
	from, to time.Time,
	filter MoleculeFilter,
) ([]solrDoc, error) {
	if to.IsZero() {
		to = from
	}
	span := fmt.Sprintf("[%sT00:00:00Z TO %sT23:59:59Z]",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	return c.solr(ctx,
		joinAND([]selector{
			{"release_date", span},
			{"molecule_type", filter.term()},
		}),
		"pdb_id,entity_id,chain_id,molecule_type")
}

func containsChain(chains []string, chain string) bool {
	for _, ch := range chains {
		if ch == chain {
			return true
		}
	}
	return false
}

// firstChain returns the lexicographically first chain identifier of an
// entity.
func firstChain(chains []string) (string, bool) {
	if len(chains) == 0 {
		return "", false
	}
	first := chains[0]
	for _, ch := range chains[1:] {
		if ch < first {
			first = ch
		}
	}
	return first, true
}
