package ntttcp

import "strings"

// TotalsHeader separates the per-thread section of an NTttcp report from the totals
const TotalsHeader = "#####  Totals:  #####\n\n"

type Report struct {
	Role   Role
	Output string
	Stderr string
	// Totals is the text after the last totals header, or the whole output
	// when the header is missing.
	Totals    string
	HasTotals bool
}

// ParseReport builds a report from captured process output. Windows line
// endings are normalized before splitting.
func ParseReport(role Role, stdout, stderr string) *Report {
	out := strings.ReplaceAll(stdout, "\r\n", "\n")
	parts := strings.Split(out, TotalsHeader)
	return &Report{
		Role:      role,
		Output:    out,
		Stderr:    strings.ReplaceAll(stderr, "\r\n", "\n"),
		Totals:    parts[len(parts)-1],
		HasTotals: len(parts) > 1,
	}
}
