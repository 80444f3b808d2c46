package ticket

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Details holds the booking fields rendered on a confirmation ticket.
type Details struct {
	BookingID   string
	ListingName string
	Category    string
	GuestName   string
	EventDate   string
	EventTime   string
	GuestCount  int
	TotalPrice  int64
	City        string
}

// Generator renders booking confirmation PDFs with a signed QR payload.
type Generator struct {
	secret []byte
}

// NewGenerator creates a ticket generator with the given HMAC signing secret
func NewGenerator(secret string) *Generator {
	return &Generator{secret: []byte(secret)}
}

// QRPayload returns the signed payload embedded in the ticket QR code:
// bookingID|listingID|timestamp|signature
func (g *Generator) QRPayload(bookingID, listingID string) string {
	timestamp := time.Now().Unix()
	data := fmt.Sprintf("%s|%s|%d", bookingID, listingID, timestamp)

	h := hmac.New(sha256.New, g.secret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyQRPayload checks the HMAC signature on a scanned payload
func (g *Generator) VerifyQRPayload(payload string) bool {
	idx := strings.LastIndex(payload, "|")
	if idx <= 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]

	h := hmac.New(sha256.New, g.secret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(sig), []byte(expected))
}

// Render produces the confirmation PDF for a confirmed booking
func (g *Generator) Render(d Details, qrPayload string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", d.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Service: %s (%s)", d.ListingName, d.Category))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Guest: %s", d.GuestName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s %s", d.EventDate, d.EventTime))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Guests: %d", d.GuestCount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("City: %s", d.City))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total: INR %d", d.TotalPrice))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}
