package pptxjson

import (
	"math"
	"strconv"
	"strings"
)

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU, 1 cm = 360000 EMU.

const (
	emuPerInch       = 914400
	emuPerPoint      = 12700
	emuPerCentimeter = 360000
	// angleUnit is the number of angle units per degree (rot="5400000" is 90deg).
	angleUnit = 60000
	// fixedDigits is the number of decimals kept on every resolved length.
	fixedDigits = 4
)

// EMUToPoint converts EMU to points.
func EMUToPoint(emu float64) float64 {
	return emu / emuPerPoint
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu float64) float64 {
	return emu / emuPerInch
}

// EMUToCentimeter converts EMU to centimeters.
func EMUToCentimeter(emu float64) float64 {
	return emu / emuPerCentimeter
}

// numberToFixed rounds v to fixedDigits decimals. Non-finite input becomes 0.
func numberToFixed(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow10(fixedDigits)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// angleToDegrees converts an OOXML angle attribute to degrees. Empty or
// malformed input yields 0.
func angleToDegrees(raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return 0
	}
	return math.Round(v / angleUnit)
}

// parseEMU parses a length attribute in EMU and converts it to points.
func parseEMU(raw string) (float64, bool) {
	v, ok := parseNumber(raw)
	if !ok {
		return 0, false
	}
	return EMUToPoint(v), true
}

// parseNumber parses an integer-looking attribute, tolerating surrounding space.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// percentAttr parses a thousandths-of-a-percent attribute ("50000" is 0.5).
func percentAttr(raw string) (float64, bool) {
	v, ok := parseNumber(raw)
	if !ok {
		return 0, false
	}
	return v / 100000, true
}

// formatNumber renders v without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(numberToFixed(v), 'f', -1, 64)
}
