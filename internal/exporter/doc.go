// Package exporter writes pipeline run reports to disk.
//
// Two output formats are produced for every run: a CSV summary for
// programmatic consumption and an Excel workbook with Summary and Steps
// sheets for human review. CSV files carry a UTF-8 BOM so Excel opens them
// correctly.
package exporter
