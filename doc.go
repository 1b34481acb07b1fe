// Package foodorder runs a fixed demo script against a food-ordering
// database: customers, restaurants, menu_items and orders. Commands are
// committed one per transaction and queries are printed as text tables.
package foodorder
