// Package database runs the food-ordering statements: it loads the
// connection configuration, opens one Bun connection per call for
// Postgres, MySQL or SQLite, executes commands in committed transactions,
// prints query results as padded text tables, and classifies driver errors.
package database
