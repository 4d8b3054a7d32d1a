// Package dataset provides the in-memory tabular representation exchanged
// between ingestion and the preprocessing stages.
//
// A Table holds named columns and ordered rows of raw string cells exactly as
// parsed from the source CSV. Typed access is layered on top: numeric column
// detection, missing-value classification, and conversion to a gonum matrix
// for the modeling stages.
package dataset
