// Package ledger implements the bounded in-memory mood history.
//
// Entries are insertion-ordered and capped; once the cap is reached, the
// oldest entries are dropped. Append and trim happen under one lock so a
// reader never observes a ledger above capacity or a torn trim.
package ledger
