package report

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Grouped formats v with prec decimals and comma thousands separators,
// e.g. Grouped(12000, 0) = "12,000".
func Grouped(v float64, prec int) string {
	return printer.Sprintf("%."+strconv.Itoa(prec)+"f", v)
}

// Money formats v as dollars with cents, e.g. "$10,500.00".
func Money(v float64) string {
	return "$" + Grouped(v, 2)
}

// Age formats an age without a trailing fraction when it is whole.
func Age(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent formats a 0-100 value with prec decimals and a % sign.
func Percent(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64) + "%"
}
