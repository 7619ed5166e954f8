// Package service holds the study use cases that sit between the HTTP and CLI
// front ends and the stores: card authoring with deduplication, statistics,
// notes and documents, settings, and the distractor selection used by quizzes.
//
// Writes that touch more than one table (a card and its schedule) run inside
// store.RunInTransaction. Services depend on the store interfaces only; the
// SQL implementations are chosen in cmd/server.
//
// Review scheduling lives in the card_review subpackage and the generate and
// commit workflow in preview.
package service
