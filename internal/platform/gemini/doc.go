// Package gemini provides a generation.Extractor backed by Google's Gemini API.
//
// The extractor renders a prompt template around the source text, asks the
// model for a JSON list of question/answer pairs and converts the reply into
// domain.QAPair values. Transient API failures are retried with exponential
// backoff and jitter; blocked content and malformed replies are not retried.
//
// The package depends on google.golang.org/genai for communicating with the
// Gemini API. Everything behind the GenerateContent call is reachable in tests
// through the contentGenerator seam.
package gemini
