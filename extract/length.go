package extract

import "unicode/utf16"

// HTMLLength returns the length of html in UTF-16 code units, the unit a
// browser client sees as the string length. Characters outside the Basic
// Multilingual Plane count twice.
func HTMLLength(html string) int {
	n := 0
	for _, r := range html {
		n += utf16.RuneLen(r)
	}
	return n
}
