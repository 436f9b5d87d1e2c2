// Package filter extracts parts of a protein structure file.
//
// Filtering is driven by a small Selector predicate consulted for every
// model, chain, residue and atom encountered, in the spirit of the selection
// hooks that structure-writing toolkits expose. Two file formats are
// supported: the legacy fixed-column PDB format, filtered record by record
// with the surviving lines copied through verbatim, and PDBx/mmCIF, parsed
// with the cif package and re-emitted as a minimal atom_site table.
//
// Note that this is a structure-level filter: it decides what to keep by
// interpreting chain, residue and atom fields. Translating chain identifiers
// inside PDB bundle member files is a different, purely textual transform
// and lives in the bundle package.
package filter
