// Package generation defines the boundary between preview generation and the
// components that turn free text into question/answer pairs. The heuristic
// extractor (internal/extract) and the Gemini-backed extractor
// (internal/platform/gemini) both implement Extractor.
package generation
