// Package match ranks known names against an unknown one so that errors about
// undeclared properties and unregistered dynamic type tags can say "did you mean".
//
// Names are compared after NormalizeIdent (CamelCase, snake_case and kebab-case
// fold to the same form) with a normalized Levenshtein similarity.
package match
