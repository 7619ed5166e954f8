// Package preview implements the two-step card generation workflow.
//
// Generate extracts question/answer candidates from notes and documents,
// tags the ones that already exist as cards, and parks the batch in a Cache
// under a random token. Commit pops the batch, so a token can be used once,
// and creates the picked candidates through the card service.
package preview
