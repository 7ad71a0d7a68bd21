package ticker

import (
	"strings"
	"unicode"
)

// Kind classifies how a user input was recognized.
type Kind string

const (
	KindInvalid     Kind = "invalid"
	KindStandard    Kind = "standard"
	KindYahooFormat Kind = "yahoo_format"
	KindPassthrough Kind = "yahoo_passthrough"
	KindUSStock     Kind = "us_stock"
	KindShanghai    Kind = "sh"
	KindShenzhen    Kind = "sz"
	KindHongKong    Kind = "hk"
	KindUnknown     Kind = "unknown"
)

// ExistsFunc reports whether a candidate ticker is known. Used to pick
// between ambiguous numeric codes, e.g. 0700 can be Shenzhen or Hong Kong.
type ExistsFunc func(ticker string) bool

// Normalize converts free-form user input to the internal ticker format.
// Internal format uses exchange suffixes .SH, .SZ and .HK; bare alphabetic
// symbols are treated as US tickers; crypto and FX pairs pass through.
func Normalize(input string) (string, Kind) {
	return NormalizeWithLookup(input, nil)
}

// NormalizeWithLookup is Normalize with a known-ticker predicate that
// disambiguates bare numeric codes.
func NormalizeWithLookup(input string, exists ExistsFunc) (string, Kind) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", KindInvalid
	}

	if strings.Count(input, ".") == 1 {
		parts := strings.SplitN(input, ".", 2)
		code, suffix := parts[0], strings.ToUpper(parts[1])
		switch suffix {
		case "SH", "SZ", "HK":
			return code + "." + suffix, KindStandard
		case "SS":
			// Yahoo's Shanghai suffix, store as internal .SH
			return code + ".SH", KindYahooFormat
		default:
			return strings.ToUpper(input), KindUnknown
		}
	}

	if strings.Contains(input, "-") || strings.HasSuffix(strings.ToUpper(input), "=X") {
		return strings.ToUpper(input), KindPassthrough
	}

	if isASCIIAlpha(input) {
		return strings.ToUpper(input), KindUSStock
	}

	if isDigits(input) {
		return identifyByCode(input, exists)
	}

	return input, KindUnknown
}

type candidate struct {
	ticker string
	kind   Kind
}

// identifyByCode classifies a bare numeric code by exchange numbering rules.
// Mainland board prefixes are tried first, then Hong Kong for short codes;
// the exists predicate picks among candidates, otherwise the first wins.
func identifyByCode(code string, exists ExistsFunc) (string, Kind) {
	padded := code
	for len(padded) < 6 {
		padded = "0" + padded
	}

	var candidates []candidate
	switch padded[:3] {
	case "600", "601", "603", "605", "688", "689":
		candidates = append(candidates, candidate{padded + ".SH", KindShanghai})
	case "000", "001", "002", "300":
		candidates = append(candidates, candidate{padded + ".SZ", KindShenzhen})
	}
	if len(code) <= 4 {
		hk := code
		for len(hk) < 4 {
			hk = "0" + hk
		}
		candidates = append(candidates, candidate{hk + ".HK", KindHongKong})
	}

	if len(candidates) == 0 {
		return code, KindUnknown
	}
	if exists != nil {
		for _, c := range candidates {
			if exists(c.ticker) {
				return c.ticker, c.kind
			}
		}
	}
	return candidates[0].ticker, candidates[0].kind
}

// ToYahoo converts an internal ticker to the Yahoo Finance symbol format.
// Shanghai uses .SS on Yahoo; Shenzhen and Hong Kong are unchanged.
func ToYahoo(ticker string) string {
	if !strings.Contains(ticker, ".") {
		return ticker
	}
	parts := strings.SplitN(ticker, ".", 2)
	if parts[1] == "SH" {
		return parts[0] + ".SS"
	}
	return ticker
}

func isASCIIAlpha(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
