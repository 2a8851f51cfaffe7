package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weekly-planner/internal/llm"
)

// --- Mocks ---

type MockTextGenerator struct {
	Response    string
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	// 1. Setup a test server serving dirty HTML
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2024</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}))
	defer ts.Close()

	c := NewClipper(&MockTextGenerator{})

	cleanText, err := c.fetchAndCleanHTML(ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("Failed to remove <script> tags")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error("Failed to remove .ads class")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("Failed to remove <footer>")
	}
	if !strings.Contains(cleanText, "Tasty Recipe") {
		t.Error("Expected to find 'Tasty Recipe'")
	}
	if !strings.Contains(cleanText, "Mix flour and water.") {
		t.Error("Expected to find body content")
	}
}

func TestClipURL_Success(t *testing.T) {
	// Mock AI Response
	aiResponse := `{"title": "Mock Pie", "description": "A pie.", "ingredients": [{"text": "Apple", "store": "", "qty": 2}], "steps": ["Bake"], "categories": ["Dessert"]}`

	mockAI := &MockTextGenerator{Response: aiResponse}
	c := NewClipper(mockAI)

	// Mock server for the URL fetch
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Some Content</body></html>"))
	}))
	defer ts.Close()

	dish, meta, err := c.ClipURL(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	if dish.Name != "Mock Pie" {
		t.Errorf("Expected name 'Mock Pie', got '%s'", dish.Name)
	}
	if dish.ID == "" {
		t.Error("Expected a fresh dish id")
	}
	if len(dish.Ingredients) != 1 || dish.Ingredients[0].Text != "Apple" {
		t.Errorf("Expected a single 'Apple' ingredient, got %+v", dish.Ingredients)
	}
	if dish.Ingredients[0].Quantity != 2 {
		t.Errorf("Expected quantity 2, got %v", dish.Ingredients[0].Quantity)
	}
	if !strings.Contains(dish.Instructions, "Bake") {
		t.Error("Expected instructions to contain extracted steps")
	}
	if meta == nil || meta.AgentName != "clipper" {
		t.Errorf("Expected clipper agent meta, got %+v", meta)
	}
}

func TestClipURL_NoRecipe(t *testing.T) {
	mockAI := &MockTextGenerator{Response: `{"title": "", "ingredients": [], "steps": []}`}
	c := NewClipper(mockAI)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Not a recipe page</body></html>"))
	}))
	defer ts.Close()

	if _, _, err := c.ClipURL(context.Background(), ts.URL); err == nil {
		t.Fatal("Expected an error for a page with no recipe, got nil")
	}
}
