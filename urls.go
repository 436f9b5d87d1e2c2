package spyprot

import (
	"fmt"
	"strings"
)

const (
	rcsbViewURL   = "https://files.rcsb.org/view"
	rcsbBundleURL = "https://files.rcsb.org/pub/pdb/compatible/pdb_bundle"
	pdbeEntryURL  = "https://www.ebi.ac.uk/pdbe/entry-files/download"
)

// validCode reports whether code looks like a PDB identifier: four
// characters starting with a digit.
func validCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	if code[0] < '0' || code[0] > '9' {
		return false
	}
	for i := 1; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// viewURL is the direct download location of a legacy PDB file.
func viewURL(base, code string) string {
	return fmt.Sprintf("%s/%s.pdb", base, strings.ToUpper(code))
}

// bundleURL is the download location of a PDB bundle archive. Bundles are
// sharded by the middle two characters of the entry code.
func bundleURL(base, code string) string {
	code = strings.ToLower(code)
	return fmt.Sprintf("%s/%s/%s/%s-pdb-bundle.tar.gz",
		base, code[1:3], code, code)
}

// cifURL is the download location of a PDBx/mmCIF file.
func cifURL(base, code string) string {
	return fmt.Sprintf("%s/%s.cif", base, strings.ToLower(code))
}

// mappingFile is the name of the chain-id mapping member of a bundle.
func mappingFile(code string) string {
	return strings.ToLower(code) + "-chain-id-mapping.txt"
}
