package converter

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/bank-ledger/pkg/ledger"
)

// BeancountTransaction represents a Beancount transaction.
type BeancountTransaction struct {
	Date      string
	Narration string
	Payee     string
	Tags      []string
	Postings  []BeancountPosting
}

// BeancountPosting represents a posting in a Beancount transaction.
type BeancountPosting struct {
	Account  string
	Amount   decimal.Decimal
	Currency string
	Comment  string
}

// Converter converts ledger entries to Beancount format.
type Converter struct {
	mapper *Mapper
}

// NewConverter creates a new Converter.
func NewConverter(mapper *Mapper) *Converter {
	if mapper == nil {
		mapper = DefaultMapper()
	}
	return &Converter{mapper: mapper}
}

// ConvertEntry converts one ledger entry of the given account to a balanced
// two-posting Beancount transaction.
func (c *Converter) ConvertEntry(account *ledger.Account, entry ledger.Entry) BeancountTransaction {
	signed := entry.Signed()
	currency := c.mapper.Currency()

	return BeancountTransaction{
		Date:      entry.Time.UTC().Format("2006-01-02"),
		Narration: buildNarration(entry),
		Tags:      []string{fmt.Sprintf("txn-%d", entry.ID)},
		Postings: []BeancountPosting{
			{
				Account:  c.mapper.GetAssetAccount(account.Number),
				Amount:   signed,
				Currency: currency,
			},
			{
				Account:  c.mapper.GetCounterAccount(entry.Operation),
				Amount:   signed.Neg(),
				Currency: currency,
			},
		},
	}
}

// FormatTransaction formats a Beancount transaction as a string.
func (c *Converter) FormatTransaction(txn BeancountTransaction) string {
	var sb strings.Builder

	// Transaction header
	sb.WriteString(txn.Date)
	sb.WriteString(" *")
	if txn.Payee != "" {
		sb.WriteString(fmt.Sprintf(" \"%s\"", txn.Payee))
	}
	sb.WriteString(fmt.Sprintf(" \"%s\"", txn.Narration))
	if len(txn.Tags) > 0 {
		sb.WriteString(" #")
		sb.WriteString(strings.Join(txn.Tags, " #"))
	}
	sb.WriteString("\n")

	// Postings
	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)

		// Right-align amount (typical Beancount style)
		spaces := int(math.Max(1, 60-float64(len(posting.Account))))
		sb.WriteString(strings.Repeat(" ", spaces))

		sb.WriteString(fmt.Sprintf("%s %s", posting.Amount.String(), posting.Currency))

		if posting.Comment != "" {
			sb.WriteString(fmt.Sprintf(" ; %s", posting.Comment))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func buildNarration(entry ledger.Entry) string {
	switch entry.Operation {
	case ledger.OpDeposit:
		return "Deposit"
	case ledger.OpWithdraw:
		return "Withdrawal"
	}
	return string(entry.Operation)
}
