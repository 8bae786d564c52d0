package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sevasetu/backend/internal/notify"
)

// Renderer produces PDF artifacts (donation receipts, membership cards)
// at a given path. Implementations are synchronous; callers bound them
// with a context deadline.
type Renderer interface {
	RenderReceipt(ctx context.Context, r notify.Canonical, outPath string) error
	RenderMemberCard(ctx context.Context, r notify.Canonical, validTill time.Time, outPath string) error
}

// FPDFRenderer renders artifacts with fpdf
type FPDFRenderer struct {
	orgName string
	orgLine string
}

// NewRenderer creates the default PDF renderer
func NewRenderer(orgName, orgLine string) *FPDFRenderer {
	if orgName == "" {
		orgName = "Seva Setu Foundation"
	}
	return &FPDFRenderer{orgName: orgName, orgLine: orgLine}
}

// RenderReceipt writes a donation receipt PDF to outPath
func (f *FPDFRenderer) RenderReceipt(ctx context.Context, r notify.Canonical, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("receipt dir: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, f.orgName, "", 1, "C", false, 0, "")
	if f.orgLine != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, f.orgLine, "", 1, "C", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, "DONATION RECEIPT", "B", 1, "C", false, 0, "")
	doc.Ln(4)

	rows := [][2]string{
		{"Receipt No", r.Code},
		{"Date", r.DateFormatted},
		{"Received from", r.Name},
		{"Address", r.Address},
		{"Amount", "Rs. " + r.AmountFormatted},
		{"Towards", r.Purpose},
		{"Payment reference", r.PaymentRef},
	}
	doc.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(50, 8, row[0], "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	doc.Ln(10)
	doc.SetFont("Helvetica", "I", 9)
	doc.MultiCell(0, 5, "This receipt is issued in acknowledgement of the above donation. Thank you for your support.", "", "L", false)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("receipt render: %w", err)
	}
	return nil
}

// RenderMemberCard writes a membership card PDF to outPath
func (f *FPDFRenderer) RenderMemberCard(ctx context.Context, r notify.Canonical, validTill time.Time, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("card dir: %w", err)
	}

	// Credit-card sized landscape page
	doc := fpdf.New("L", "mm", "A5", "")
	doc.AddPage()

	doc.SetFillColor(240, 244, 248)
	doc.Rect(5, 5, 200, 138, "F")

	doc.SetFont("Helvetica", "B", 16)
	doc.SetXY(10, 12)
	doc.CellFormat(0, 10, f.orgName, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "MEMBERSHIP CARD", "", 1, "C", false, 0, "")
	doc.Ln(8)

	rows := [][2]string{
		{"Member", r.Name},
		{"Member code", r.Code},
		{"Member since", r.DateFormatted},
		{"Valid till", validTill.Format("02 Jan 2006")},
	}
	for _, row := range rows {
		doc.SetX(20)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(50, 9, row[0], "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 12)
		doc.CellFormat(0, 9, row[1], "", 1, "L", false, 0, "")
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("card render: %w", err)
	}
	return nil
}
