// Package mask formats user input the way the quote form does on every keystroke.
// Every mask is pure and idempotent: Mask(Mask(s)) == Mask(s).
package mask

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	nonDigit    = regexp.MustCompile(`\D`)
	nonPlate    = regexp.MustCompile(`[^A-Z0-9]`)
	phoneArea   = regexp.MustCompile(`(\d{2})(\d)`)
	phoneHyphen = regexp.MustCompile(`(\d{5})(\d)`)
	phoneTail   = regexp.MustCompile(`(-\d{4})\d+?$`)
	cnpjDot1    = regexp.MustCompile(`(\d{2})(\d)`)
	cnpjDot2    = regexp.MustCompile(`(\d{3})(\d)`)
	cnpjSlash   = regexp.MustCompile(`(\d{3})(\d)`)
	cnpjHyphen  = regexp.MustCompile(`(\d{4})(\d)`)
	cnpjTail    = regexp.MustCompile(`(-\d{2})\d+?$`)
	plateHyphen = regexp.MustCompile(`(\w{3})(\w)`)
	plateTail   = regexp.MustCompile(`(-\w{4})\w+?$`)
)

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Phone formats a Brazilian phone number as "(DD) DDDDD-DDDD".
func Phone(s string) string {
	v := Digits(s)
	v = replaceFirst(phoneArea, v, "(${1}) ${2}")
	v = replaceFirst(phoneHyphen, v, "${1}-${2}")
	return replaceFirst(phoneTail, v, "${1}")
}

// CNPJ formats a company tax id as "DD.DDD.DDD/DDDD-DD".
func CNPJ(s string) string {
	v := Digits(s)
	v = replaceFirst(cnpjDot1, v, "${1}.${2}")
	v = replaceFirst(cnpjDot2, v, "${1}.${2}")
	v = replaceFirst(cnpjSlash, v, "${1}/${2}")
	v = replaceFirst(cnpjHyphen, v, "${1}-${2}")
	return replaceFirst(cnpjTail, v, "${1}")
}

// Plate formats a vehicle plate as "ABC-1D23".
func Plate(s string) string {
	v := nonPlate.ReplaceAllString(strings.ToUpper(s), "")
	v = replaceFirst(plateHyphen, v, "${1}-${2}")
	return replaceFirst(plateTail, v, "${1}")
}

// Currency reads the digits of s as cents and returns a fixed two-decimal
// string ("1234" -> "12.34"). Input without digits yields "0.00".
func Currency(s string) string {
	v := Digits(s)
	if v == "" {
		return "0.00"
	}
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return "0.00"
	}
	return amount.Shift(-2).StringFixed(2)
}

// replaceFirst substitutes only the leftmost match of re.
func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	expanded := re.ExpandString(nil, template, s, loc)
	return s[:loc[0]] + string(expanded) + s[loc[1]:]
}
