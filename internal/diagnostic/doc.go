// Package diagnostic records the non-fatal outcomes of a decode pass.
//
// A failure on an optional property does not abort decoding; it is logged and kept
// here as a warning so callers can still inspect what was dropped.
package diagnostic
