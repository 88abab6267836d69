// Package qc implements the survey quality-control reconciliation
// pipeline.
//
// Three tables go in: a wide survey-response table, a question-metadata
// ("recon") table, and a numeric-code lookup table. One denormalized QC
// table comes out. The pipeline is a fixed composition of pure
// transformations:
//
//	prune -> reshape (wide to long) -> cleanse keys
//	      -> inner join on Name (recon metadata)
//	      -> cleanse Value -> left join on Value (numeric codes)
//
// Cleansing (trim, collapse whitespace, optional upper-case) is applied
// to every join key on both sides before every join; inconsistent
// capitalization and whitespace in hand-maintained sheets is the
// dominant cause of join misses. Missing cells stay missing throughout.
//
// The pipeline is synchronous and stateless across runs. Inputs are
// treated as immutable; every transformation returns a new table.
package qc
