// Package currency defines the supported display currencies and formats
// amounts according to each currency's locale.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default is the currency assigned to newly created user settings.
const Default = "MNT"

// Info pairs a currency code with the locale used to format it.
type Info struct {
	Code   string
	Label  string
	Locale language.Tag
}

// Supported lists the currencies a user may select, in display order.
var Supported = []Info{
	{Code: "MNT", Label: "₮ Tugrik", Locale: language.MustParse("mn-MN")},
	{Code: "USD", Label: "$ Dollar", Locale: language.MustParse("en-US")},
	{Code: "EUR", Label: "€ Euro", Locale: language.MustParse("de-DE")},
	{Code: "GBP", Label: "£ Pound", Locale: language.MustParse("en-GB")},
}

// IsSupported reports whether code is one of the supported currencies.
func IsSupported(code string) bool {
	for _, c := range Supported {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Formatter formats decimal amounts in a fixed currency and locale.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter returns a formatter for the given currency code, or false if
// the code is not supported.
func NewFormatter(code string) (*Formatter, bool) {
	var info *Info
	for i := range Supported {
		if Supported[i].Code == code {
			info = &Supported[i]
			break
		}
	}
	if info == nil {
		return nil, false
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, false
	}

	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(info.Locale),
	}, true
}

// maxFloatRender bounds the float64 path: a decimal with two fraction digits
// round-trips through float64 only up to 15 significant digits.
var maxFloatRender = decimal.New(1, 13)

// Format renders an amount with the currency symbol in the formatter's locale.
// Amounts too large for an exact float64 projection are rendered from the
// fixed decimal string so no rounding drift can show up.
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.Abs().GreaterThan(maxFloatRender) {
		symbol := f.printer.Sprintf("%v", currency.Symbol(f.unit))
		return symbol + " " + rounded.StringFixed(2)
	}
	v, _ := rounded.Float64()
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(v)))
}
