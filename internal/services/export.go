package services

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

// truncateForCell shortens entry text to fit a table cell, cutting on rune
// boundaries so multibyte characters are never split.
func truncateForCell(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// BuildJournalPDF renders the user's profile and journal history as a PDF.
// Entries must be in chronological order; the "Final Mood" column follows the
// same derivation the insights endpoint uses.
func BuildJournalPDF(profile *models.Profile, entries []models.JournalEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Journal Export", false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Journal Export", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Profile section
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Profile", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	profileRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	profileRow("Name", profile.FullName)
	profileRow("Date of Birth", profile.DateOfBirth.Format("January 2, 2006"))
	profileRow("Age", strconv.Itoa(profile.Age()))
	profileRow("Gender", profile.Gender)
	pdf.Ln(6)

	// Journal history table
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Journal History", "", 1, "L", false, 0, "")

	if len(entries) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No journal entries yet.", "", 1, "L", false, 0, "")
	} else {
		finals := FinalMoods(entries)

		headers := []string{"Date", "Initial Mood", "Final Mood", "Entry"}
		widths := []float64{28, 28, 28, 106}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(235, 235, 245)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for i, e := range entries {
			final := "N/A"
			if finals[i] != "" {
				final = string(finals[i])
			}

			content := truncateForCell(e.Content, 180)

			pdf.CellFormat(widths[0], 7, e.CreatedAt.Format("2006-01-02"), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 7, string(e.MoodBefore), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[2], 7, final, "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[3], 7, content, "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
