// Package search queries public protein structure metadata services.
//
// Two services are used. The PDBe Solr endpoint answers questions about a
// single entry's composition: its chains, their sequences, their molecule
// types and release dates. The RCSB search service answers sequence
// similarity queries, returning polymer entities that are then translated
// back to chains through Solr.
//
// All queries go through a Client, which rate-limits outgoing requests so
// bulk lookups stay polite to the public endpoints.
package search
