// Package model defines the data produced by a spiderling run.
//
// This package contains the following types:
//   - Result: the outcome of fetching a single address
//   - Run: the ordered results of one pass over the address sequence
//
// Models live in their own package so that the fetcher and the report
// writers can share them without import cycles. They are serializable to
// JSON for report output.
package model
