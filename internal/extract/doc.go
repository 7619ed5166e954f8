// Package extract implements the heuristic question/answer extractor used by
// preview generation. It works line by line on plain text and never calls out
// to external services.
package extract
