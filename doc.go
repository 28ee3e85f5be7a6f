// Package invest is a personal investment accounting engine.
//
// It tracks buy/sell transactions of fungible instruments (bonds,
// notes, equities) and answers three questions exactly and
// reproducibly: what is currently held and at what cost (FIFO lot
// matching), what future cash is contractually owed on instruments
// with a repayment schedule (cashflow projection), and what annualized
// return a set of irregular cash flows produced (XIRR).
//
// The three calculation components are pure functions: they keep no
// state between invocations, perform no I/O, and given identical
// inputs produce identical outputs. Persistence is a thin JSONL layer
// around them; everything heavier (pricing, HTTP, UI) belongs to the
// surrounding application.
package invest
