// Package store provides SQLite-backed storage for flat, typed records.
//
// It stands in for the remote record API: the tree loader asks it for the
// records of some types matching some filters, one level at a time.
//
// # Records
//
// Each record is a ref, a type tag and a JSON object of fields. Type tags are
// stored case-folded. Reference fields hold the referenced ref as a string;
// collection fields hold a JSON array of refs.
//
// # Models
//
// Datasets with custom record types store their field schemas alongside the
// records. Registry returns those models, or the built-in ones when none
// were stored.
//
// # Queries
//
//   - Filters are ANDed. Operators: "=", "!=", "contains".
//   - "=" against a collection field tests membership.
//   - "=" with an empty value matches a missing, null or empty field, so
//     {Parent = ""} selects root records.
//   - "contains" is a case-insensitive substring match.
//   - Results order by the given sorters, then insertion sequence.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
