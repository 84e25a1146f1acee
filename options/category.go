package options

import (
	"fmt"
	"strings"
)

type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // byte, short, integer, long, float, double, decimal widening without precision loss
	CategoryUnsafeNumber                          // narrowing number conversions, range checked before truncation
	CategoryTextNumber                            // number <-> string: textual number representation
	CategoryNumericBool                           // integer <-> boolean: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> boolean: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string <-> date, time, date-time: textual date and time representation
	CategoryTimestamp                             // integer, long <-> date, date-time: Unix milliseconds representation
	CategoryTemporal                              // date <-> date-time <-> time: truncating or widening temporal values
	CategoryCharacter                             // char <-> string, char <-> integers: single character and code point representation

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected
)

var categoryNames = map[string]CategoryEnum{
	"safe_number":   CategorySafeNumber,
	"unsafe_number": CategoryUnsafeNumber,
	"text_number":   CategoryTextNumber,
	"numeric_bool":  CategoryNumericBool,
	"textual_bool":  CategoryTextualBool,
	"datetime":      CategoryDatetime,
	"timestamp":     CategoryTimestamp,
	"temporal":      CategoryTemporal,
	"character":     CategoryCharacter,
	"all":           CategoryAll,
	"none":          CategoryNone,
}

// ParseCategories combines category names (e.g. "safe_number", "datetime")
// into a single mask. An empty list selects every category.
func ParseCategories(names []string) (CategoryEnum, error) {
	if len(names) == 0 {
		return CategoryAll, nil
	}

	var mask CategoryEnum

	for _, name := range names {
		c, ok := categoryNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
		}

		mask |= c
	}

	return mask, nil
}
