package document

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"e-approval/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	pageWidth    = 595
	pageHeight   = 842
	marginLeft   = 50
	marginTop    = 800
	marginBottom = 60
	wrapColumns  = 92
	dateLayout   = "02 Jan 2006 15:04"
)

var ErrRenderFailed = apperror.New(
	apperror.CodeInternalError,
	"Failed to render document",
	http.StatusInternalServerError,
)

//go:generate mockgen -source=document_renderer.go -destination=mock/document_renderer_mock.go -package=mock
type Renderer interface {
	Render(ctx context.Context, snap Snapshot) ([]byte, error)
}

type pdfRenderer struct {
	organization string
	logger       *zap.Logger
}

// NewPDFRenderer renders plain multi-page PDF 1.4 forms using the standard Helvetica fonts.
func NewPDFRenderer(organization string, logger ...*zap.Logger) Renderer {
	l := zap.L().Named("document.renderer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.renderer")
	}
	return &pdfRenderer{organization: organization, logger: l}
}

type line struct {
	text string
	size int
	bold bool
	gap  int
}

func (r *pdfRenderer) Render(ctx context.Context, snap Snapshot) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap.SerialNumber == "" {
		return nil, apperror.Wrap(fmt.Errorf("snapshot has no serial number"), ErrRenderFailed.Code, ErrRenderFailed.Message, ErrRenderFailed.HTTPStatus)
	}

	lines := r.layout(snap)
	pages := paginate(lines)
	out := buildPDF(pages)

	r.logger.Debug("document rendered",
		zap.String("serial_number", snap.SerialNumber),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(out)),
	)
	return out, nil
}

func (r *pdfRenderer) layout(snap Snapshot) []line {
	var ls []line
	heading := func(text string) {
		ls = append(ls, line{text: text, size: 12, bold: true, gap: 10})
	}
	text := func(s string) {
		for _, w := range wrap(s, wrapColumns) {
			ls = append(ls, line{text: w, size: 10})
		}
	}

	if r.organization != "" {
		ls = append(ls, line{text: strings.ToUpper(r.organization), size: 16, bold: true})
	}
	ls = append(ls, line{text: "REQUEST FORM", size: 14, bold: true, gap: 6})
	text("Serial No: " + snap.SerialNumber)
	text("Type: " + snap.RequestType)
	text("Status: " + snap.FinalStatus)
	if !snap.CreatedAt.IsZero() {
		text("Submitted: " + snap.CreatedAt.Format(dateLayout))
	}

	heading("Applicant")
	text("Name: " + orDash(snap.StaffName))
	text("Department: " + orDash(snap.StaffDepartment))

	if len(snap.Fields) > 0 {
		heading("Details")
		for _, f := range snap.Fields {
			text(f.Label + ": " + orDash(f.Value))
		}
	}

	if len(snap.Items) > 0 {
		heading("Items")
		for i, it := range snap.Items {
			text(fmt.Sprintf("%d. %s  x%d  @ %s", i+1, it.Name, it.Quantity, orDash(it.EstimatedCost)))
			if it.Supplier != "" {
				text("   Supplier: " + it.Supplier)
			}
			if it.Reason != "" {
				text("   Reason: " + it.Reason)
			}
		}
		if snap.TotalEstimatedCost != "" {
			text("Total estimated cost: " + snap.TotalEstimatedCost)
		}
	}

	if m := snap.Maintenance; m != nil {
		heading("Maintenance")
		text("Status: " + orDash(m.Status))
		text("Priority: " + orDash(m.Priority))
		text("Technician: " + orDash(m.TechnicianName))
		if m.SLAHours > 0 {
			text("SLA: " + strconv.Itoa(m.SLAHours) + " hours")
		}
		text("Started: " + formatTime(m.StartedAt))
		text("Completed: " + formatTime(m.CompletedAt))
		if m.TimeToCompleteMinutes != nil {
			text("Time to complete: " + strconv.Itoa(*m.TimeToCompleteMinutes) + " minutes")
		}
	}

	if len(snap.Attachments) > 0 {
		heading("Attachments")
		for _, a := range snap.Attachments {
			text("- " + a)
		}
	}

	heading("Approvals")
	if len(snap.Approvals) == 0 {
		text("-")
	}
	for _, a := range snap.Approvals {
		signed := ""
		if a.Signed {
			signed = " (signed)"
		}
		text(fmt.Sprintf("Level %d: %s (%s) - %s%s", a.Level, orDash(a.ApproverName), orDash(a.ApproverDepartment), a.Status, signed))
		if a.ActionDate != nil {
			text("   Date: " + a.ActionDate.Format(dateLayout))
		}
		if a.Remark != "" {
			text("   Remark: " + a.Remark)
		}
	}

	return ls
}

func paginate(lines []line) [][]line {
	var pages [][]line
	var current []line
	y := marginTop

	for _, l := range lines {
		step := l.size + 4 + l.gap
		if y-step < marginBottom && len(current) > 0 {
			pages = append(pages, current)
			current = nil
			y = marginTop
		}
		y -= step
		current = append(current, l)
	}
	if len(current) > 0 || len(pages) == 0 {
		pages = append(pages, current)
	}
	return pages
}

// buildPDF writes the catalog, page tree and two shared fonts, then one page and one
// content stream per page. Object offsets feed the xref table.
func buildPDF(pages [][]line) []byte {
	objects := []string{
		"", // catalog, filled below
		"", // page tree, filled below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
	}

	kids := make([]string, 0, len(pages))
	for i, p := range pages {
		pageNum := len(objects) + 1
		contentNum := pageNum + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))

		stream := pageStream(p, i+1, len(pages))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>", pageWidth, pageHeight, contentNum),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for i, obj := range objects {
		offsets = append(offsets, out.Len())
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(offsets))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart)

	return out.Bytes()
}

func pageStream(lines []line, page, total int) string {
	var b strings.Builder
	y := marginTop
	for _, l := range lines {
		y -= l.size + 4 + l.gap
		font := "F1"
		if l.bold {
			font = "F2"
		}
		fmt.Fprintf(&b, "BT /%s %d Tf %d %d Td (%s) Tj ET\n", font, l.size, marginLeft, y, pdfEscape(l.text))
	}
	fmt.Fprintf(&b, "BT /F1 8 Tf %d %d Td (Page %d of %d) Tj ET", pageWidth-110, marginBottom-30, page, total)
	return b.String()
}

// pdfEscape maps text onto WinAnsi, replacing what the standard fonts cannot show.
func pdfEscape(v string) string {
	var enc strings.Builder
	for _, r := range v {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			enc.WriteByte(b)
			continue
		}
		enc.WriteByte('?')
	}
	v = enc.String()

	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)", "\r", " ", "\n", " ")
	return replacer.Replace(v)
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			out = append(out, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(out, current)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}
