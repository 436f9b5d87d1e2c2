package filter

import "github.com/TuftsBCB/structure"

// Residue identifies a single residue of a structure during filtering.
type Residue struct {
	// The three-letter component name, e.g. "MET" or "HOH".
	Name string

	// The residue sequence number from the source record.
	SeqNum int

	// Whether the residue comes from a HETATM record.
	Het bool
}

// Atom is a single atom site offered to a Selector.
type Atom struct {
	// The atom name with surrounding whitespace trimmed, e.g. "CA".
	Name string

	// The residue this atom belongs to.
	Residue Residue

	structure.Coords
}

// A Selector decides which parts of a structure survive filtering. Each
// predicate is consulted in order from coarse to fine: a rejected model is
// never asked about its chains, and so on down to atoms.
type Selector interface {
	// Model reports whether the model with the given index is kept.
	// Indices count models in file order starting at 0; a file without
	// explicit model records has a single model with index 0.
	Model(index int) bool

	// Chain reports whether the chain with the given identifier is kept.
	Chain(id string) bool

	// Residue reports whether the residue given is kept.
	Residue(r Residue) bool

	// Atom reports whether the atom given is kept.
	Atom(a Atom) bool
}

// ChainSelect is a Selector keeping the standard residues of one chain in
// one model. Water and every other hetero residue are dropped, as is any
// residue whose name equals ResidueOut. When AtomName is non-empty, only
// atoms with that name survive, which reduces a chain to (say) its
// alpha-carbon trace.
type ChainSelect struct {
	// The chain identifier to keep.
	ChainID string

	// The index of the model to keep. The zero value keeps the first model.
	ModelIndex int

	// A residue name to drop. Defaults to water ("HOH"). Hetero residues
	// are dropped regardless of this field.
	ResidueOut string

	// When non-empty, the only atom name kept.
	AtomName string
}

// NewChainSelect returns a Selector keeping the standard residues of the
// chain given, dropping water.
func NewChainSelect(chain string) *ChainSelect {
	return &ChainSelect{ChainID: chain}
}

// NewChainAtomSelect returns a Selector like NewChainSelect that
// additionally keeps only atoms named atom (e.g. "CA").
func NewChainAtomSelect(chain, atom string) *ChainSelect {
	return &ChainSelect{ChainID: chain, AtomName: atom}
}

func (s *ChainSelect) Model(index int) bool {
	return index == s.ModelIndex
}

func (s *ChainSelect) Chain(id string) bool {
	return id == s.ChainID
}

func (s *ChainSelect) Residue(r Residue) bool {
	out := s.ResidueOut
	if len(out) == 0 {
		out = "HOH"
	}
	return !r.Het && r.Name != out
}

func (s *ChainSelect) Atom(a Atom) bool {
	return len(s.AtomName) == 0 || a.Name == s.AtomName
}
