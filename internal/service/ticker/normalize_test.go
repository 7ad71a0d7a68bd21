package ticker

import "testing"

func TestNormalizeStandardSuffixes(t *testing.T) {
	cases := []struct {
		in   string
		want string
		kind Kind
	}{
		{"600519.SH", "600519.SH", KindStandard},
		{"000001.sz", "000001.SZ", KindStandard},
		{"0700.hk", "0700.HK", KindStandard},
		{"600519.SS", "600519.SH", KindYahooFormat},
		{"aapl", "AAPL", KindUSStock},
		{"BTC-USD", "BTC-USD", KindPassthrough},
		{"eurusd=x", "EURUSD=X", KindPassthrough},
	}
	for _, c := range cases {
		got, kind := Normalize(c.in)
		if got != c.want || kind != c.kind {
			t.Fatalf("Normalize(%q) = %q %q, want %q %q", c.in, got, kind, c.want, c.kind)
		}
	}
}

func TestNormalizeNumericCodes(t *testing.T) {
	got, kind := Normalize("600519")
	if got != "600519.SH" || kind != KindShanghai {
		t.Fatalf("expected Shanghai, got %q %q", got, kind)
	}
	got, kind = Normalize("300750")
	if got != "300750.SZ" || kind != KindShenzhen {
		t.Fatalf("expected Shenzhen, got %q %q", got, kind)
	}
	// short codes pad to four digits when the lookup confirms Hong Kong
	exists := func(tk string) bool { return tk == "0005.HK" }
	got, kind = NormalizeWithLookup("5", exists)
	if got != "0005.HK" || kind != KindHongKong {
		t.Fatalf("expected padded Hong Kong code, got %q %q", got, kind)
	}
}

func TestNormalizeAmbiguousCodeUsesLookup(t *testing.T) {
	// 0700 matches both the Shenzhen 000700 pattern and Hong Kong 0700
	exists := func(tk string) bool { return tk == "0700.HK" }
	got, kind := NormalizeWithLookup("0700", exists)
	if got != "0700.HK" || kind != KindHongKong {
		t.Fatalf("lookup should pick Hong Kong, got %q %q", got, kind)
	}

	// without a lookup the mainland candidate wins
	got, _ = NormalizeWithLookup("0700", nil)
	if got != "000700.SZ" {
		t.Fatalf("expected mainland fallback, got %q", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if _, kind := Normalize("  "); kind != KindInvalid {
		t.Fatalf("expected invalid kind")
	}
}

func TestToYahoo(t *testing.T) {
	if got := ToYahoo("600519.SH"); got != "600519.SS" {
		t.Fatalf("expected 600519.SS, got %q", got)
	}
	if got := ToYahoo("0700.HK"); got != "0700.HK" {
		t.Fatalf("expected unchanged, got %q", got)
	}
	if got := ToYahoo("AAPL"); got != "AAPL" {
		t.Fatalf("expected unchanged, got %q", got)
	}
}
