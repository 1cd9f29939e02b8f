// Package resolve enriches lesson slots with the textual detail the PDF
// source exposes behind a simulated map click: it parses the returned HTML
// table, classifies its structure (simple, block, or multi), and picks the
// row that most plausibly describes the clicked slot.
//
// The upstream click session is stateful; callers must resolve a session's
// slots strictly sequentially.
package resolve
