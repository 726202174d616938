package ntttcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleOutput = `Copyright Version 5.40
Network activity progressing...


Thread  Time(s) Throughput(KB/s) Avg B / Compl
======  ======= ================ =============
     0   10.001        54321.000    65536.000

#####  Totals:  #####

   Bytes(MEG)    realtime(s) Avg Frame Size Throughput(MB/s)
================ =========== ============== ================
      530.500000      10.001       1460.000           53.045
`

func TestParseReport(t *testing.T) {
	t.Parallel()

	t.Run("with totals", func(t *testing.T) {
		t.Parallel()

		r := ParseReport(Receiver, sampleOutput, "")
		assert.True(t, r.HasTotals)
		assert.Equal(t, Receiver, r.Role)
		assert.Equal(t, sampleOutput, r.Output)
		assert.Contains(t, r.Totals, "Throughput(MB/s)")
		assert.NotContains(t, r.Totals, "Thread  Time(s)")
		assert.True(t, len(r.Totals) > 0 && r.Totals[0] == ' ')
	})
	t.Run("windows line endings", func(t *testing.T) {
		t.Parallel()

		r := ParseReport(Sender, "header\r\n#####  Totals:  #####\r\n\r\ntotals line\r\n", "warn\r\n")
		assert.True(t, r.HasTotals)
		assert.Equal(t, "totals line\n", r.Totals)
		assert.Equal(t, "warn\n", r.Stderr)
	})
	t.Run("without totals", func(t *testing.T) {
		t.Parallel()

		r := ParseReport(Sender, "unexpected output\n", "")
		assert.False(t, r.HasTotals)
		assert.Equal(t, "unexpected output\n", r.Totals)
	})
	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		r := ParseReport(Sender, "", "")
		assert.False(t, r.HasTotals)
		assert.Empty(t, r.Totals)
	})
	t.Run("last totals section wins", func(t *testing.T) {
		t.Parallel()

		r := ParseReport(Sender, "a"+TotalsHeader+"b"+TotalsHeader+"c", "")
		assert.Equal(t, "c", r.Totals)
	})
}
