// Package preprocess implements the table-to-table stages that run between
// ingestion and model training: outlier removal, missing-value handling, and
// the train/test split.
package preprocess
