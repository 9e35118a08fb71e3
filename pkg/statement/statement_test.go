package statement

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"gopkg.in/yaml.v3"
)

func sampleEntries() []ledger.Entry {
	return []ledger.Entry{
		{
			ID:        1,
			AccountID: 3,
			Amount:    decimal.NewFromInt(1000),
			Operation: ledger.OpDeposit,
			Time:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			ID:        2,
			AccountID: 3,
			Amount:    decimal.RequireFromString("12.5"),
			Operation: ledger.OpWithdraw,
			Time:      time.Date(2024, 1, 2, 4, 0, 0, 0, time.FixedZone("JST", 9*3600)),
		},
	}
}

func TestFromEntries(t *testing.T) {
	lines := FromEntries(sampleEntries())

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].AccountID != 3 || lines[0].Type != "deposit" || lines[0].Time != "2024-01-02 03:04:05" {
		t.Errorf("line 0 = %+v", lines[0])
	}
	// Times are rendered in UTC.
	if lines[1].Time != "2024-01-01 19:00:00" {
		t.Errorf("line 1 time = %q, want 2024-01-01 19:00:00", lines[1].Time)
	}

	if empty := FromEntries(nil); empty == nil || len(empty) != 0 {
		t.Errorf("FromEntries(nil) = %#v, want empty list", empty)
	}
}

func TestEncodeJSON(t *testing.T) {
	out, err := Render(FromEntries(sampleEntries()[:1]), FormatJSON)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := `[
  {
    "account_id": 3,
    "amount": 1000,
    "type": "deposit",
    "time": "2024-01-02 03:04:05"
  }
]
`
	if out != want {
		t.Errorf("Render =\n%s\nwant\n%s", out, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	out, err := Render(nil, FormatJSON)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "[]\n" {
		t.Errorf("Render(nil) = %q, want %q", out, "[]\n")
	}
}

func TestEncodeYAML(t *testing.T) {
	lines := FromEntries(sampleEntries())

	var buf bytes.Buffer
	if err := Encode(&buf, lines, FormatYAML); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"amount: 1000\n", "amount: 12.5\n", "type: withdraw\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}

	var back []Line
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(back) != 2 || !back[1].Amount.Equal(decimal.RequireFromString("12.5")) || back[0].Time != lines[0].Time {
		t.Errorf("YAML round trip = %+v", back)
	}
}

func TestAmountJSON(t *testing.T) {
	var line Line
	if err := json.Unmarshal([]byte(`{"account_id":1,"amount":250.75,"type":"deposit","time":"x"}`), &line); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !line.Amount.Equal(decimal.RequireFromString("250.75")) {
		t.Errorf("Amount = %s, want 250.75", line.Amount)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if err := Encode(&bytes.Buffer{}, nil, Format("csv")); err == nil {
		t.Error("expected Encode with unknown format to fail")
	}
}
