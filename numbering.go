package pptxjson

import (
	"strconv"
	"strings"
)

// FormatAutoNumber renders the marker of the n-th item of an auto-numbered
// list with numbering format numType (arabicPeriod, alphaLcParenR, ...).
// Unknown formats render arabic numerals.
func FormatAutoNumber(n int, numType string) string {
	if numType == "" {
		numType = "arabicPeriod"
	}
	if cn, ok := chineseDigitsFor(numType); ok {
		if core, ok := toChinese(n, cn); ok {
			return chineseAffix(core, numType)
		}
		return latinAffix(strconv.Itoa(n), numType)
	}
	return latinAffix(numberCore(n, numType), numType)
}

// numberCore dispatches on the numeral family of numType.
func numberCore(n int, numType string) string {
	switch {
	case strings.HasPrefix(numType, "alphaLc"):
		return toAlpha(n, false)
	case strings.HasPrefix(numType, "alphaUc"):
		return toAlpha(n, true)
	case strings.HasPrefix(numType, "romanLc"):
		return toRoman(n, false)
	case strings.HasPrefix(numType, "romanUc"):
		return toRoman(n, true)
	case strings.HasPrefix(numType, "circleNumWdBlack"):
		return toCircledBlack(n)
	case strings.HasPrefix(numType, "circleNum"):
		return toCircled(n)
	case strings.HasPrefix(numType, "arabicDb"):
		return toFullWidth(strconv.Itoa(n))
	}
	return strconv.Itoa(n)
}

func latinAffix(core, numType string) string {
	switch {
	case strings.Contains(numType, "ParenBoth"):
		return "(" + core + ")"
	case strings.Contains(numType, "ParenR"):
		return core + ")"
	case strings.Contains(numType, "Period"):
		return core + "."
	case strings.Contains(numType, "Comma"):
		return core + ","
	case strings.Contains(numType, "Plain"):
		return core
	}
	return core + "."
}

func chineseAffix(core, numType string) string {
	switch {
	case strings.Contains(numType, "ParenBoth"):
		return "（" + core + "）"
	case strings.Contains(numType, "ParenR"):
		return core + "）"
	case strings.Contains(numType, "Plain"):
		return core
	}
	return core + "、"
}

// toAlpha renders n in bijective base 26: a..z, aa, ab ...
func toAlpha(n int, upper bool) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('a'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	s := string(buf)
	if upper {
		return strings.ToUpper(s)
	}
	return s
}

var romanTable = []struct {
	value int
	sym   string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// toRoman renders n as a roman numeral, clamped to 1..3999.
func toRoman(n int, upper bool) string {
	n = max(1, min(3999, n))
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.sym)
			n -= r.value
		}
	}
	if upper {
		return strings.ToUpper(b.String())
	}
	return b.String()
}

// toCircled renders 1..50 as white circled digits, otherwise arabic.
func toCircled(n int) string {
	switch {
	case n >= 1 && n <= 20:
		return string(rune(0x2460 + n - 1))
	case n >= 21 && n <= 35:
		return string(rune(0x3251 + n - 21))
	case n >= 36 && n <= 50:
		return string(rune(0x32B1 + n - 36))
	}
	return strconv.Itoa(n)
}

// toCircledBlack renders 1..20 as black circled digits and falls back to
// the white range beyond.
func toCircledBlack(n int) string {
	switch {
	case n >= 1 && n <= 10:
		return string(rune(0x2776 + n - 1))
	case n >= 11 && n <= 20:
		return string(rune(0x24EB + n - 11))
	}
	return toCircled(n)
}

func toFullWidth(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			r += 0xFF10 - '0'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// chineseDigits is one Chinese numeral system.
type chineseDigits struct {
	digits []string // 0..9
	units  []string // ten, hundred, thousand
	wan    string   // ten thousand
	// financial forms keep the leading one of 10..19.
	financial bool
}

var (
	chsDigits = chineseDigits{
		digits: strings.Split("零一二三四五六七八九", ""),
		units:  []string{"十", "百", "千"},
		wan:    "万",
	}
	chtDigits = chineseDigits{
		digits: strings.Split("零一二三四五六七八九", ""),
		units:  []string{"十", "百", "千"},
		wan:    "萬",
	}
	chsFinancial = chineseDigits{
		digits:    strings.Split("零壹贰叁肆伍陆柒捌玖", ""),
		units:     []string{"拾", "佰", "仟"},
		wan:       "万",
		financial: true,
	}
	chtFinancial = chineseDigits{
		digits:    strings.Split("零壹貳參肆伍陸柒捌玖", ""),
		units:     []string{"拾", "佰", "仟"},
		wan:       "萬",
		financial: true,
	}
)

// chineseDigitsFor picks the numeral system of a Chinese format tag.
func chineseDigitsFor(numType string) (chineseDigits, bool) {
	financial := strings.Contains(numType, "Financial") || strings.Contains(numType, "Formal")
	switch {
	case strings.Contains(numType, "Cht"):
		if financial {
			return chtFinancial, true
		}
		return chtDigits, true
	case strings.Contains(numType, "Chs"):
		if financial {
			return chsFinancial, true
		}
		return chsDigits, true
	}
	return chineseDigits{}, false
}

// toChinese renders 1..99999999 in Chinese numerals.
func toChinese(n int, d chineseDigits) (string, bool) {
	if n < 1 || n > 99999999 {
		return "", false
	}
	high, low := n/10000, n%10000
	var s string
	if high > 0 {
		s = chineseSection(high, d) + d.wan
		if low > 0 && low < 1000 {
			s += d.digits[0]
		}
	}
	if low > 0 {
		s += chineseSection(low, d)
	}
	if !d.financial && n >= 10 && n < 20 {
		s = strings.TrimPrefix(s, d.digits[1])
	}
	return s, true
}

// chineseSection renders 1..9999, writing a single zero for each run of
// inner zero digits.
func chineseSection(x int, d chineseDigits) string {
	units := []string{d.units[2], d.units[1], d.units[0], ""}
	var b strings.Builder
	started, zero := false, false
	div := 1000
	for i := range 4 {
		q := x / div % 10
		div /= 10
		if q == 0 {
			zero = started
			continue
		}
		if zero {
			b.WriteString(d.digits[0])
			zero = false
		}
		b.WriteString(d.digits[q])
		b.WriteString(units[i])
		started = true
	}
	return b.String()
}
