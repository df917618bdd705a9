package content

import "testing"

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		lang string
		want string
	}{
		{"number gains marker", 19.99, "en", "$19.99"},
		{"integer number", float64(10), "en", "$10"},
		{"zero is free", float64(0), "en", "Free"},
		{"zero localized nl", float64(0), "nl", "Gratis"},
		{"zero localized pt", float64(0), "pt", "Grátis"},
		{"zero localized de", float64(0), "de", "Kostenlos"},
		{"already marked", "$9.99", "en", "$9.99"},
		{"euro marked", "€4.50", "de", "€4.50"},
		{"numeric string", "19.99", "en", "$19.99"},
		{"zero string", "0", "nl", "Gratis"},
		{"free word kept canonical", "free", "pt", "Grátis"},
		{"foreign free word relocalized", "Kostenlos", "en", "Free"},
		{"prose left alone", "Contact us", "en", "Contact us"},
		{"empty", "", "en", ""},
		{"unknown language falls back", float64(0), "fr", "Free"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePrice(tt.in, tt.lang); got != tt.want {
				t.Errorf("NormalizePrice(%v, %q) = %q, want %q", tt.in, tt.lang, got, tt.want)
			}
		})
	}
}

func TestNormalizePriceIdempotent(t *testing.T) {
	inputs := []any{19.99, float64(0), "9.99", "Free", "Contact us", "$5"}
	for _, in := range inputs {
		once := NormalizePrice(in, "en")
		twice := NormalizePrice(once, "en")
		if once != twice {
			t.Errorf("not idempotent for %v: %q then %q", in, once, twice)
		}
	}
}
