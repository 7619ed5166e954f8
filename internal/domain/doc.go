// Package domain contains the core study entities: cards, their Leitner
// scheduling state, the review log and the ephemeral preview batch used to
// stage generated cards. It is independent of any storage engine or
// delivery mechanism.
package domain
