// Package preprocess prepares a raw dataset table for model fitting.
//
// The three steps run in a fixed order:
//
//  1. Clean: drop identifier columns, drop columns whose missing fraction
//     exceeds the configured threshold, drop columns with no observed
//     values at all (a warning, never a failure), and impute the rest:
//     numeric columns with their median, categorical columns with their
//     mode (ties broken by first appearance in row order).
//  2. TransformTarget: apply log1p to the target column, rejecting
//     negative values, and fix every categorical column's level set.
//  3. Split: partition the rows into training and evaluation subsets with
//     a seeded permutation; reproducible for a fixed seed.
//
// Levels are fixed before the split on purpose: both subsets must encode
// categorical values against the same label set, or the two design
// matrices drift apart.
//
// Every step returns a new table; the caller's table is never mutated.
package preprocess
