package options

// CategoryEnum is a bit set of the lenient coercions the matching pipeline may apply
// on top of the exact-type rules. Exact matches (string to string, bool to bool,
// number to number of the same family) are always allowed.
type CategoryEnum int

const (
	CategoryTextNumber  CategoryEnum = 1 << iota // "42", "1.5" -> int, float: textual number representation
	CategoryNumericBool                          // 0, 1, 2.5 -> bool: numeric truthiness
	CategoryTextualBool                          // "true", "t", "1", "false", "f", "0" -> bool (case-insensitive)
	CategoryNumericDecimal                       // 1.25, 3, true -> decimal
	CategoryTimestamp                            // int(Unix seconds) -> time.Time
	CategoryDuration                             // string(2h45m) -> time.Duration
	CategoryNanoseconds                          // int(nanoseconds) -> time.Duration
	CategorySeconds                              // float(seconds) -> time.Duration

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDefault is what a zero-configured mapper uses: everything except
	// numeric timestamps, since a date is expected to arrive as a formatted string.
	CategoryDefault = CategoryAll &^ CategoryTimestamp
)

// Has reports whether every category in c is enabled.
func (e CategoryEnum) Has(c CategoryEnum) bool {
	return e&c == c
}
