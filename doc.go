// Package spyprot fetches protein structure files from the public PDB
// archives and reduces them to single chains.
//
// Legacy PDB files are downloaded from RCSB. Entries too large for the
// legacy format are published as "PDB bundles" instead, a tar.gz of member
// files with reassigned single-character chain identifiers; when the direct
// download fails, the fetcher falls back to the bundle, consults its
// chain-id mapping and rewrites the member file so the requested chain
// identifier appears in the output. PDBx/mmCIF files are downloaded from
// PDBe and filtered the same way.
//
// Filtering semantics live in the filter package, bundle parsing in the
// bundle package, and metadata queries (identical, unique and similar
// chains, release date listings) in the search package.
package spyprot
