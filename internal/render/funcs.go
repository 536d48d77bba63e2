package render

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hitoshi/skatebio/internal/model"
)

// Age は生年月日からnow時点の満年齢を返す。
// 誕生日を迎えていない年は1歳少なく数える。
func Age(birth model.Date, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Ordinal は英語の序数表記（1st, 2nd, 3rd, 11th, 21st ...）を返す。
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// PlacementLabel は順位の表示文字列を返す。
// placement_textが設定されていればそれを優先し、どちらもなければ "-" を返す。
func PlacementLabel(placement *int, text *string) string {
	if text != nil && strings.TrimSpace(*text) != "" {
		return *text
	}
	if placement != nil {
		return Ordinal(*placement)
	}
	return "-"
}

// PlacementTier は順位バッジの色分け（gold, silver, bronze, other）を返す。
func PlacementTier(placement *int) string {
	if placement == nil {
		return "other"
	}
	switch *placement {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	}
	return "other"
}

// FormatMoney は賞金を通貨記号付きの米国英語表記で返す。
// 整数額は小数部を省略する（例: "$10,000"）。通貨コードが不明な場合はUSDとして扱う。
func FormatMoney(amount float64, code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = currency.USD
	}
	p := message.NewPrinter(language.AmericanEnglish)
	symbol := p.Sprint(currency.Symbol(unit))

	if amount == math.Trunc(amount) {
		return symbol + p.Sprintf("%d", int64(amount))
	}
	return symbol + p.Sprintf("%.2f", amount)
}

// Capitalize は先頭の1文字だけを大文字にし、残りの文字はそのまま残す。
// cases.Caserはgoroutine間で共有できないため呼び出しごとに生成する。
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(language.English).String(string(r)) + s[size:]
}
