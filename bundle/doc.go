// Package bundle reads the chain-ID mapping file distributed inside a PDB
// bundle archive and rewrites the legacy chain identifiers found in the
// fixed-column records of bundle member files.
//
// The PDB distributes some entries as "bundles" when an entry has more
// distinct chains than the single chain-ID column of the legacy PDB format
// can represent. A bundle is a tar archive holding several legacy-format
// member files plus one mapping file (named "<code>-chain-id-mapping.txt")
// that says, for every chain of the entry, which member file holds its
// records and which single character stands in for the chain inside that
// file.
//
// This package performs the two text transforms needed to recover a single
// chain from a bundle: parsing the mapping file into lookup tables, and
// copying one chain's ATOM/HETATM records out of a member file with the
// stand-in identifier translated back to the chain identifier the caller
// asked for.
package bundle
