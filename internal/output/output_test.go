package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reez/ackamoto/internal/models"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestInfo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Info("hello %s", "world")
	assert.Contains(t, out.String(), "hello world")
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("wrote %d reports", 42)
	assert.Contains(t, out.String(), "wrote 42 reports")
}

func TestWarning(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Warning("careful %s", "now")
	assert.Contains(t, errOut.String(), "careful now")
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("failed %s", "badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = false
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())

	u.Verbose = true
	u.VerboseLog("detail %d", 2)
	assert.Contains(t, out.String(), "detail 2")
}

func TestDryRunMsg(t *testing.T) {
	u, _, errOut := newTestUI()
	u.DryRun = true
	u.DryRunMsg("would write %s", "index.html")
	assert.Contains(t, errOut.String(), "[DRY-RUN]")
	assert.Contains(t, errOut.String(), "would write index.html")
}

func TestVerdictColor(t *testing.T) {
	// Category text survives coloring for every family.
	assert.Contains(t, VerdictColor(models.VerdictACK), "ACK")
	assert.Contains(t, VerdictColor(models.VerdictNACK), "NACK")
	assert.Contains(t, VerdictColor(models.VerdictUnclassified), "Unclassified")
}

func TestDispositionColor(t *testing.T) {
	assert.Contains(t, DispositionColor(models.DispositionACKed), "ACKed")
	assert.Contains(t, DispositionColor(models.DispositionNACKed), "NACKed")
	assert.Contains(t, DispositionColor(models.DispositionUnreviewed), "Unreviewed")
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"PR", "Disposition"})
	_ = table.Append([]string{"#100", "ACKed"})
	_ = table.Render()

	s := out.String()
	assert.True(t, strings.Contains(s, "#100"))
	assert.True(t, strings.Contains(s, "ACKed"))
}
