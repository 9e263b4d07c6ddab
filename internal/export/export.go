// Package export renders generated wallets for people and files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Klingon-tech/hdgen/internal/wallet"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// Mask replaces secrets in masked table output.
const Mask = "**************"

// CSVHeader is the first row of CSV output.
var CSVHeader = []string{"index", "chain type", "network", "address", "mnemonic", "derivation path", "private key"}

// ParseFormat accepts table, json or csv (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or csv)", s)
}

// Options controls rendering.
type Options struct {
	Format Format
	// ShowSecrets prints mnemonics and private keys in table output.
	// JSON and CSV always carry them.
	ShowSecrets bool
	// Fingerprint is included in JSON output when set.
	Fingerprint string
}

// Write renders records to w.
func Write(w io.Writer, records []wallet.Record, opts Options) error {
	switch opts.Format {
	case FormatTable, "":
		return WriteTable(w, records, opts.ShowSecrets)
	case FormatJSON:
		return WriteJSON(w, records, opts.Fingerprint)
	case FormatCSV:
		return WriteCSV(w, records)
	}
	return fmt.Errorf("unknown output format %q", opts.Format)
}

// WriteTable prints an aligned table. Secrets are masked unless showSecrets.
func WriteTable(w io.Writer, records []wallet.Record, showSecrets bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHAIN\tNETWORK\tADDRESS\tPATH\tMNEMONIC\tPRIVATE KEY")
	for _, r := range records {
		mnemonic, key := r.Mnemonic, r.PrivateKey
		if !showSecrets {
			mnemonic, key = Mask, Mask
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Index, r.Chain, r.Network, r.Address, r.DerivationPath, mnemonic, key)
	}
	return tw.Flush()
}

// Batch is the JSON document written for a generated batch.
type Batch struct {
	Fingerprint string          `json:"fingerprint,omitempty"`
	Count       int             `json:"count"`
	Wallets     []wallet.Record `json:"wallets"`
}

// WriteJSON writes the batch as indented JSON.
func WriteJSON(w io.Writer, records []wallet.Record, fingerprint string) error {
	if records == nil {
		records = []wallet.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Batch{
		Fingerprint: fingerprint,
		Count:       len(records),
		Wallets:     records,
	})
}

// WriteCSV writes CSVHeader followed by one row per record.
func WriteCSV(w io.Writer, records []wallet.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Index),
			r.Chain.String(),
			r.Network,
			r.Address,
			r.Mnemonic,
			r.DerivationPath,
			r.PrivateKey,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
