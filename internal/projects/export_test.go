package projects

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleProject() *Project {
	return &Project{
		ID:    uuid.New(),
		Title: "DevMatch",
		Technology: TechnologySnapshot{
			ID:    uuid.New(),
			Title: "Next.js",
		},
	}
}

func TestRenderMarkdownStructuredSections(t *testing.T) {
	doc := &MVPDocument{
		Title:        "DevMatch MVP",
		Overview:     "Connects developers with investors.",
		Features:     []string{"Investor directory", "Realtime chat"},
		TechStack:    "Go, PostgreSQL, WebSocket",
		Architecture: "Monolith with a realtime hub.",
		Timeline:     "6 weeks to beta.",
		Resources:    "Two engineers.",
		Version:      "1.2",
		UpdatedAt:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	md := RenderMarkdown(sampleProject(), doc)

	assert.True(t, strings.HasPrefix(md, "# DevMatch - MVP Document"))
	assert.Contains(t, md, "## Project Overview")
	assert.Contains(t, md, "1. Investor directory")
	assert.Contains(t, md, "2. Realtime chat")
	assert.Contains(t, md, "## Technology Stack")
	assert.Contains(t, md, "*Built with Next.js*")

	// Sections appear in document order
	overview := strings.Index(md, "## Project Overview")
	features := strings.Index(md, "## Core Features")
	timeline := strings.Index(md, "## Development Timeline")
	assert.Less(t, overview, features)
	assert.Less(t, features, timeline)
}

func TestRenderMarkdownPrefersFreeformContent(t *testing.T) {
	doc := &MVPDocument{
		Content:  "# Hand-written MVP\n\nExactly as drafted.",
		Overview: "This should not appear.",
	}

	md := RenderMarkdown(sampleProject(), doc)
	assert.Equal(t, doc.Content, md)
	assert.NotContains(t, md, "This should not appear.")
}

func TestRenderMarkdownSkipsEmptySections(t *testing.T) {
	doc := &MVPDocument{Overview: "Just an overview.", Version: "1.0"}

	md := RenderMarkdown(sampleProject(), doc)
	assert.Contains(t, md, "## Project Overview")
	assert.NotContains(t, md, "## Core Features")
	assert.NotContains(t, md, "## Architecture")
}

func TestMarkdownFilename(t *testing.T) {
	p := &Project{Title: "AI Code Review"}
	assert.Equal(t, "ai-code-review-mvp.md", MarkdownFilename(p))
}

func TestRenderPDFProducesDocument(t *testing.T) {
	doc := &MVPDocument{
		Overview: "Connects developers with investors.",
		Features: []string{"Directory", "Chat"},
		Version:  "1.0",
	}

	data, err := RenderPDF(sampleProject(), doc)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
