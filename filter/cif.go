package filter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/cif"
	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// atomTable is the atom_site loop of a single-entry PDBx/mmCIF file,
// unpacked into parallel columns.
type atomTable struct {
	entryID string
	groups  []string
	names   []string
	comps   []string
	chains  []string
	seqNums []int
	xs      []float64
	ys      []float64
	zs      []float64
	models  []int
}

func (t *atomTable) len() int { return len(t.groups) }

// site builds the Atom for row i offered to a Selector.
func (t *atomTable) site(i int) Atom {
	return Atom{
		Name: t.names[i],
		Residue: Residue{
			Name:   t.comps[i],
			SeqNum: t.seqNums[i],
			Het:    t.groups[i] == "HETATM",
		},
		Coords: structure.Coords{X: t.xs[i], Y: t.ys[i], Z: t.zs[i]},
	}
}

// readAtomTable parses exactly one data block from a PDBx/mmCIF file and
// unpacks its atom_site loop. The cif package lowercases tag names, so all
// lookups here use lowercase tags.
func readAtomTable(r io.Reader) (*atomTable, error) {
	cf, err := cif.Read(r)
	if err != nil {
		return nil, err
	}
	if len(cf.Blocks) != 1 {
		return nil, fmt.Errorf("expected one data block, got %d", len(cf.Blocks))
	}
	var b *cif.DataBlock
	for _, block := range cf.Blocks {
		b = block
	}

	loop, ok := b.Loops["atom_site.group_pdb"]
	if !ok {
		return nil, fmt.Errorf("data block %q has no atom_site records", b.Name)
	}

	t := &atomTable{entryID: b.Name}
	if id, ok := b.Items["entry.id"]; ok {
		t.entryID = id.String()
	}

	t.groups = loopStrings(loop, "atom_site.group_pdb")
	t.names = loopStrings(loop, "atom_site.label_atom_id")
	t.comps = loopStrings(loop, "atom_site.label_comp_id")
	if t.groups == nil || t.names == nil || t.comps == nil {
		return nil, fmt.Errorf("atom_site loop is missing atom attributes")
	}

	// Author-assigned identifiers match what legacy PDB files carry; fall
	// back to the label variants when a file omits them.
	t.chains = loopStrings(loop, "atom_site.auth_asym_id")
	if t.chains == nil {
		t.chains = loopStrings(loop, "atom_site.label_asym_id")
	}
	if t.chains == nil {
		return nil, fmt.Errorf("atom_site loop has no chain identifiers")
	}
	t.seqNums = loopInts(loop, "atom_site.auth_seq_id")
	if t.seqNums == nil {
		t.seqNums = loopInts(loop, "atom_site.label_seq_id")
	}
	if t.seqNums == nil {
		t.seqNums = make([]int, len(t.groups))
	}

	t.xs = loopFloats(loop, "atom_site.cartn_x")
	t.ys = loopFloats(loop, "atom_site.cartn_y")
	t.zs = loopFloats(loop, "atom_site.cartn_z")
	if t.xs == nil || t.ys == nil || t.zs == nil {
		return nil, fmt.Errorf("atom_site loop has no coordinates")
	}

	t.models = loopInts(loop, "atom_site.pdbx_pdb_model_num")
	if t.models == nil {
		t.models = make([]int, len(t.groups))
		for i := range t.models {
			t.models[i] = 1
		}
	}
	return t, nil
}

func loopStrings(loop *cif.Loop, tag string) []string {
	if _, ok := loop.Columns[tag]; !ok {
		return nil
	}
	return loop.Get(tag).Strings()
}

// loopInts reads a column of integers. Columns that mix numbers with the
// CIF placeholders "." and "?" come back from the parser as strings, so a
// lenient per-row conversion is used, with 0 for anything non-numeric.
func loopInts(loop *cif.Loop, tag string) []int {
	if _, ok := loop.Columns[tag]; !ok {
		return nil
	}
	col := loop.Get(tag)
	if ns := col.Ints(); ns != nil {
		return ns
	}
	ss := col.Strings()
	if ss == nil {
		return nil
	}
	ns := make([]int, len(ss))
	for i, s := range ss {
		ns[i], _ = strconv.Atoi(s)
	}
	return ns
}

func loopFloats(loop *cif.Loop, tag string) []float64 {
	if _, ok := loop.Columns[tag]; !ok {
		return nil
	}
	return loop.Get(tag).Floats()
}

// FilterCIF copies the atom sites of a PDBx/mmCIF file from r to w, keeping
// only those accepted by sel, and re-emits them as a minimal mmCIF file with
// a single atom_site loop. Atom site ordinals are renumbered from 1. Models
// are matched by file order, so a file whose first model is numbered 1 has
// model index 0.
func FilterCIF(w io.Writer, r io.Reader, sel Selector) error {
	t, err := readAtomTable(r)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "data_%s\n", t.entryID)
	fmt.Fprintf(out, "_entry.id %s\n", t.entryID)
	fmt.Fprintln(out, "loop_")
	for _, tag := range []string{
		"_atom_site.group_PDB",
		"_atom_site.id",
		"_atom_site.label_atom_id",
		"_atom_site.label_comp_id",
		"_atom_site.auth_asym_id",
		"_atom_site.auth_seq_id",
		"_atom_site.Cartn_x",
		"_atom_site.Cartn_y",
		"_atom_site.Cartn_z",
		"_atom_site.pdbx_PDB_model_num",
	} {
		fmt.Fprintln(out, tag)
	}

	ordinal := 0
	for i := 0; i < t.len(); i++ {
		if !sel.Model(t.models[i]-1) || !sel.Chain(t.chains[i]) {
			continue
		}
		a := t.site(i)
		if !sel.Residue(a.Residue) || !sel.Atom(a) {
			continue
		}
		ordinal++
		fmt.Fprintf(out, "%s %d %s %s %s %d %.3f %.3f %.3f %d\n",
			t.groups[i], ordinal, t.names[i], t.comps[i],
			t.chains[i], t.seqNums[i],
			t.xs[i], t.ys[i], t.zs[i], t.models[i])
	}
	return out.Flush()
}

// ChainResidues lists the residues of the given chain in the first model of
// a PDBx/mmCIF file, in file order and without duplicates. Water is skipped.
func ChainResidues(r io.Reader, chain string) ([]Residue, error) {
	t, err := readAtomTable(r)
	if err != nil {
		return nil, err
	}

	firstModel := 0
	if t.len() > 0 {
		firstModel = t.models[0]
	}

	var residues []Residue
	for i := 0; i < t.len(); i++ {
		if t.models[i] != firstModel || t.chains[i] != chain {
			continue
		}
		if t.comps[i] == "HOH" {
			continue
		}
		res := Residue{
			Name:   t.comps[i],
			SeqNum: t.seqNums[i],
			Het:    t.groups[i] == "HETATM",
		}
		if n := len(residues); n > 0 && residues[n-1] == res {
			continue
		}
		residues = append(residues, res)
	}
	return residues, nil
}

// FirstResidueNumber returns the sequence number of the first residue of
// the given chain in a PDBx/mmCIF file, or 0 if the chain has no residues.
func FirstResidueNumber(r io.Reader, chain string) (int, error) {
	residues, err := ChainResidues(r, chain)
	if err != nil {
		return 0, err
	}
	if len(residues) == 0 {
		return 0, nil
	}
	return residues[0].SeqNum, nil
}

// ChainSequence derives the one-letter residue sequence of the given chain
// from the atom sites of a PDBx/mmCIF file. Only standard residues
// contribute; unknown components become 'X'.
func ChainSequence(r io.Reader, chain string) (seq.Sequence, error) {
	residues, err := ChainResidues(r, chain)
	if err != nil {
		return seq.Sequence{}, err
	}

	s := seq.Sequence{
		Name:     chain,
		Residues: make([]seq.Residue, 0, len(residues)),
	}
	for _, res := range residues {
		if res.Het {
			continue
		}
		s.Residues = append(s.Residues, compLetter(res.Name))
	}
	return s, nil
}
