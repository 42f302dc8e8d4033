// Package inspect provides the built-in inspection strategies run by
// engine.Inspector: a data-types overview and summary statistics.
//
// Reports are rendered as gota DataFrames so they read like the tables
// analysts already get from the dataset itself.
package inspect
