package entities

import (
	"testing"
)

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name    string
		quotes  []Quote
		wantDEX DEXType
		wantOK  bool
	}{
		{
			name:   "empty list",
			quotes: nil,
			wantOK: false,
		},
		{
			name: "single quote",
			quotes: []Quote{
				{DEX: "A", OutputAmount: "3"},
			},
			wantDEX: "A",
			wantOK:  true,
		},
		{
			name: "largest output wins",
			quotes: []Quote{
				{DEX: "A", OutputAmount: "5.1"},
				{DEX: "B", OutputAmount: "5.16"},
				{DEX: "C", OutputAmount: "5.159"},
			},
			wantDEX: "B",
			wantOK:  true,
		},
		{
			name: "ties keep first seen",
			quotes: []Quote{
				{DEX: "A", OutputAmount: "10"},
				{DEX: "B", OutputAmount: "10"},
				{DEX: "C", OutputAmount: "9"},
			},
			wantDEX: "A",
			wantOK:  true,
		},
		{
			name: "zero and invalid lose to positive",
			quotes: []Quote{
				{DEX: "A", OutputAmount: "0"},
				{DEX: "B", OutputAmount: "abc"},
				{DEX: "C", OutputAmount: "0.000001"},
			},
			wantDEX: "C",
			wantOK:  true,
		},
		{
			name: "all zero or invalid returns first",
			quotes: []Quote{
				{DEX: "A", OutputAmount: "not-a-number"},
				{DEX: "B", OutputAmount: "0"},
				{DEX: "C", OutputAmount: ""},
			},
			wantDEX: "A",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBest(tt.quotes)
			if ok != tt.wantOK {
				t.Fatalf("SelectBest() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if got != nil {
					t.Errorf("SelectBest() = %+v, want nil", got)
				}
				return
			}
			if got.DEX != tt.wantDEX {
				t.Errorf("SelectBest() dex = %s, want %s", got.DEX, tt.wantDEX)
			}
		})
	}
}

func TestSelectBestMatchesMaximum(t *testing.T) {
	quotes := []Quote{
		{DEX: "A", OutputAmount: "1.5"},
		{DEX: "B", OutputAmount: "7.25"},
		{DEX: "C", OutputAmount: "7.2499"},
		{DEX: "D", OutputAmount: "0.5"},
	}

	best, ok := SelectBest(quotes)
	if !ok {
		t.Fatal("expected a best quote")
	}
	for _, q := range quotes {
		if q.Output().GreaterThan(best.Output()) {
			t.Errorf("quote %s (%s) beats selected %s (%s)", q.DEX, q.OutputAmount, best.DEX, best.OutputAmount)
		}
	}
}

func TestSelectBestReturnsCopy(t *testing.T) {
	quotes := []Quote{{DEX: "A", OutputAmount: "1"}}
	best, _ := SelectBest(quotes)
	best.OutputAmount = "999"
	if quotes[0].OutputAmount != "1" {
		t.Errorf("SelectBest must not alias the input slice")
	}
}

func TestQuoteRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  QuoteRequest
		want error
	}{
		{"valid", QuoteRequest{"APT", "USDC", "100000000"}, nil},
		{"missing input token", QuoteRequest{"", "USDC", "1"}, ErrMissingParams},
		{"missing output token", QuoteRequest{"APT", "", "1"}, ErrMissingParams},
		{"missing amount", QuoteRequest{"APT", "USDC", ""}, ErrMissingParams},
		{"zero amount", QuoteRequest{"APT", "USDC", "0"}, ErrInvalidAmount},
		{"decimal amount", QuoteRequest{"APT", "USDC", "1.5"}, ErrInvalidAmount},
		{"negative amount", QuoteRequest{"APT", "USDC", "-5"}, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
