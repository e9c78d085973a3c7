// Package folio provides the accounting core of a personal investment
// portfolio: holdings and multi-currency cash state with mark-to-market
// valuation, immutable point-in-time snapshots, and the codecs used to persist
// them.
//
// The core functionalities include:
//   - Ledger primitives: Holding and CashBalance are value records. Every
//     operation on them returns a new value and never mutates in place.
//   - Portfolio state: State is the single writer of holdings and cash. It is
//     safe for concurrent use and every aggregate it reports is computed from
//     one consistent view of the whole portfolio.
//   - Snapshots: immutable captures of the state, kept as append-only history
//     and fed to the performance calculator.
//   - Persistence: a JSON state document with exact decimal strings, and a
//     msgpack archive of snapshot history.
//
// All monetary amounts and quantities are exact base-10 decimals. Aggregates
// are rounded half-up to two decimal places.
//
// Performance analytics live in the performance package and Australian capital
// gains tax in the cgt package. They do not depend on State and are composed by
// the caller.
package folio
