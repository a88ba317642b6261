// Package migrations holds the schema history. Each file registers its
// migrations from init(); cmd/stockpile imports the package for its side
// effects.
package migrations
