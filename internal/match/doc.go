// Package match ranks document names by similarity so that a path that
// resolves to nothing can be reported with "did you mean" suggestions.
//
// Key functions:
//   - NormalizeName: folds element, attribute and key names for fuzzy matching
//   - Levenshtein: computes edit distance between names
//   - Rank / Suggest: order the names available at a node by similarity
package match
