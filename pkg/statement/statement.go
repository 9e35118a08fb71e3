// Package statement serializes account transaction logs.
package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
	"gopkg.in/yaml.v3"
)

// TimeLayout is the timestamp layout of statement lines.
const TimeLayout = "2006-01-02 15:04:05"

// Format is a statement encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty name means JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown statement format %q", name)
}

// Amount is a decimal rendered as a bare number in JSON and YAML.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (interface{}, error) {
	tag := "!!float"
	if a.IsInteger() {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: a.String()}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", node.Value, err)
	}
	a.Decimal = d
	return nil
}

// Line is one serialized statement entry.
type Line struct {
	AccountID int64  `json:"account_id" yaml:"account_id"`
	Amount    Amount `json:"amount" yaml:"amount"`
	Type      string `json:"type" yaml:"type"`
	Time      string `json:"time" yaml:"time"`
}

// FromEntries projects log entries into statement lines, keeping their order.
func FromEntries(entries []ledger.Entry) []Line {
	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, Line{
			AccountID: e.AccountID,
			Amount:    Amount{e.Amount},
			Type:      string(e.Operation),
			Time:      e.Time.UTC().Format(TimeLayout),
		})
	}
	return lines
}

// Encode writes lines to w in the given format. JSON is indented by two spaces.
func Encode(w io.Writer, lines []Line, format Format) error {
	if lines == nil {
		lines = []Line{}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(lines); err != nil {
			return fmt.Errorf("failed to encode statement: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		data, err := json.MarshalIndent(lines, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode statement: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown statement format %q", format)
}

// Render returns the encoded statement as a string.
func Render(lines []Line, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, lines, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}
