// Package main is the entry point for the bank-ledger CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/bank-ledger/cmd/bank-ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
