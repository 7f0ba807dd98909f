package projects

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderMarkdown renders an MVP document as a standalone Markdown file. When
// the document has free-form content, that content is the export; otherwise
// the structured sections are assembled.
func RenderMarkdown(project *Project, doc *MVPDocument) string {
	if strings.TrimSpace(doc.Content) != "" {
		return doc.Content
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# %s - MVP Document\n\n", project.Title)
	fmt.Fprintf(&b, "*Version %s · Generated %s*\n\n", doc.Version, doc.UpdatedAt.Format("January 2, 2006"))

	if doc.Overview != "" {
		b.WriteString("## Project Overview\n\n")
		b.WriteString(doc.Overview)
		b.WriteString("\n\n")
	}

	if len(doc.Features) > 0 {
		b.WriteString("## Core Features\n\n")
		for i, feature := range doc.Features {
			fmt.Fprintf(&b, "%d. %s\n", i+1, feature)
		}
		b.WriteString("\n")
	}

	if doc.TechStack != "" {
		b.WriteString("## Technology Stack\n\n")
		b.WriteString(doc.TechStack)
		b.WriteString("\n\n")
	}

	if doc.Architecture != "" {
		b.WriteString("## Architecture\n\n")
		b.WriteString(doc.Architecture)
		b.WriteString("\n\n")
	}

	if doc.Timeline != "" {
		b.WriteString("## Development Timeline\n\n")
		b.WriteString(doc.Timeline)
		b.WriteString("\n\n")
	}

	if doc.Resources != "" {
		b.WriteString("## Required Resources\n\n")
		b.WriteString(doc.Resources)
		b.WriteString("\n\n")
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Built with %s*\n", project.Technology.Title)

	return b.String()
}

// MarkdownFilename returns the download filename for a Markdown export
func MarkdownFilename(project *Project) string {
	slug := strings.ToLower(strings.ReplaceAll(project.Title, " ", "-"))
	return fmt.Sprintf("%s-mvp.md", slug)
}

// RenderPDF renders an MVP document as a PDF
func RenderPDF(project *Project, doc *MVPDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - MVP Document", project.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(128, 128, 128)
	meta := fmt.Sprintf("Version %s  |  Generated %s", doc.Version, time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 6, meta, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeSection(pdf, "Project Overview", doc.Overview)

	if len(doc.Features) > 0 {
		writeSectionTitle(pdf, "Core Features")
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(0, 0, 0)
		for i, feature := range doc.Features {
			pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, feature), "", "L", false)
		}
		pdf.Ln(4)
	}

	writeSection(pdf, "Technology Stack", doc.TechStack)
	writeSection(pdf, "Architecture", doc.Architecture)
	writeSection(pdf, "Development Timeline", doc.Timeline)
	writeSection(pdf, "Required Resources", doc.Resources)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	writeSectionTitle(pdf, title)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, body, "", "L", false)
	pdf.Ln(4)
}

func writeSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(68, 114, 196)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}
