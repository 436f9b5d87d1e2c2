package filter

import "github.com/TuftsBCB/seq"

// compLetter translates a three-letter amino acid component name to its
// one-letter abbreviation. Unrecognized components, including nucleotides
// and ligands, map to 'X'.
func compLetter(comp string) seq.Residue {
	switch comp {
	case "ALA":
		return 'A'
	case "ARG":
		return 'R'
	case "ASN":
		return 'N'
	case "ASP":
		return 'D'
	case "CYS":
		return 'C'
	case "GLU":
		return 'E'
	case "GLN":
		return 'Q'
	case "GLY":
		return 'G'
	case "HIS":
		return 'H'
	case "ILE":
		return 'I'
	case "LEU":
		return 'L'
	case "LYS":
		return 'K'
	case "MET":
		return 'M'
	case "PHE":
		return 'F'
	case "PRO":
		return 'P'
	case "SER":
		return 'S'
	case "THR":
		return 'T'
	case "TRP":
		return 'W'
	case "TYR":
		return 'Y'
	case "VAL":
		return 'V'
	case "SEC":
		return 'U'
	case "PYL":
		return 'O'
	default:
		return 'X'
	}
}
