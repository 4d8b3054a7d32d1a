// Package ingest turns a caller-supplied archive into an in-memory Table.
//
// Ingestion is a strict linear flow: validate the archive extension, extract
// all entries into an isolated per-run directory, discover exactly one CSV
// file among the extracted entries, and parse it. Zero or multiple CSV
// candidates are hard failures; there is no disambiguation by name, size, or
// recency.
//
// Concrete ingestors are selected through a Factory keyed by file extension.
package ingest
