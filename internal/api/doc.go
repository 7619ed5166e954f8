// Package api exposes cards, study sessions, quizzes, preview batches,
// content and settings over HTTP. Handlers decode and validate requests, call
// one service and translate service errors into status codes.
package api
