package gst

import (
	"math"
	"strings"
)

var onesWords = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

// AmountInWords renders a rupee amount in words using the Indian
// numbering system (crore/lakh/thousand). Paise are rendered when the
// fractional part is non-zero. Amounts are capped in practice by the
// scheme's document limits; values at or above one arab are rendered
// digit-group-wise in crores.
func AmountInWords(amount float64) string {
	if amount < 0 {
		return "minus " + AmountInWords(-amount)
	}

	rupees := int64(amount)
	paise := int64(math.Round((amount - float64(rupees)) * 100))
	if paise == 100 {
		rupees++
		paise = 0
	}

	var b strings.Builder
	switch {
	case rupees == 0:
		b.WriteString("zero rupees")
	case rupees == 1:
		b.WriteString("one rupee")
	default:
		b.WriteString(groupsInWords(rupees))
		b.WriteString(" rupees")
	}
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(belowThousand(paise))
		b.WriteString(" paise")
	}
	b.WriteString(" only")
	return b.String()
}

// groupsInWords splits n into crore/lakh/thousand/hundreds groups.
func groupsInWords(n int64) string {
	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, groupsInWords(crore)+" crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowThousand(lakh)+" lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowThousand(thousand)+" thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

// belowThousand renders 1..999.
func belowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" hundred")
		n %= 100
	}
	if n >= 20 {
		word := tensWords[n/10]
		if n%10 > 0 {
			word += " " + onesWords[n%10]
		}
		parts = append(parts, word)
	} else if n > 0 {
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
