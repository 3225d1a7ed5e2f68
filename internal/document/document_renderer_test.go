package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleSnapshot() Snapshot {
	acted := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return Snapshot{
		SerialNumber:    "REQ-2026-0007",
		RequestType:     "PURCHASE",
		FinalStatus:     "PENDING",
		StaffName:       "Aina (Finance)",
		StaffDepartment: "Finance",
		CreatedAt:       time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Fields:          []Field{{Label: "Purpose", Value: "Office supplies"}},
		Items: []Item{
			{Name: "Printer toner", Quantity: 2, EstimatedCost: "120.00", Supplier: "Acme"},
		},
		TotalEstimatedCost: "240.00",
		Approvals: []Approval{
			{Level: 1, ApproverName: "Bima", ApproverDepartment: "Finance", Status: "APPROVED", Signed: true, ActionDate: &acted},
			{Level: 2, ApproverName: "Citra", Status: "PENDING"},
		},
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("Underwater World", zap.NewNop())

	out, err := r.Render(context.Background(), sampleSnapshot())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.4\n")))
	assert.True(t, bytes.HasSuffix(out, []byte("%%EOF")))

	body := string(out)
	assert.Contains(t, body, "(Serial No: REQ-2026-0007) Tj")
	assert.Contains(t, body, `Aina \(Finance\)`)
	assert.Contains(t, body, `Level 1: Bima \(Finance\) - APPROVED \(signed\)`)
	assert.Contains(t, body, "/Count 1")
}

func TestPDFRenderer_Paginates(t *testing.T) {
	r := NewPDFRenderer("", zap.NewNop())
	snap := sampleSnapshot()
	for i := 0; i < 120; i++ {
		snap.Items = append(snap.Items, Item{Name: fmt.Sprintf("item %d", i), Quantity: 1, EstimatedCost: "1.00"})
	}

	out, err := r.Render(context.Background(), snap)

	require.NoError(t, err)
	body := string(out)
	assert.NotContains(t, body, "/Count 1 ")
	assert.Contains(t, body, "Page 1 of ")
	assert.Equal(t, strings.Count(body, "/Type /Page "), countPages(body))
}

func countPages(body string) int {
	i := strings.Index(body, "/Count ")
	var n int
	fmt.Sscanf(body[i+len("/Count "):], "%d", &n)
	return n
}

func TestPDFRenderer_RejectsEmptySnapshot(t *testing.T) {
	_, err := NewPDFRenderer("").Render(context.Background(), Snapshot{})

	assert.ErrorIs(t, err, ErrRenderFailed)
}

func TestPDFEscape(t *testing.T) {
	assert.Equal(t, `a \(b\) \\ c`, pdfEscape(`a (b) \ c`))
	assert.Equal(t, "caf\xe9 ?", pdfEscape("café 日"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"aaa bbb", "ccc"}, wrap("aaa bbb ccc", 7))
	assert.Equal(t, []string{""}, wrap("   ", 10))
}
