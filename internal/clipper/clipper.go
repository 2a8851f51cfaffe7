package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"weekly-planner/internal/llm"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

// Clipper handles fetching web pages and extracting recipes from them.
type Clipper struct {
	textGen llm.TextGenerator
}

// ExtractedRecipe represents the data structured by the AI.
type ExtractedRecipe struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients []struct {
		Text  string  `json:"text"`
		Store string  `json:"store"`
		Qty   float64 `json:"qty"`
	} `json:"ingredients"`
	Steps      []string `json:"steps"`
	Categories []string `json:"categories"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator) *Clipper {
	return &Clipper{textGen: textGen}
}

// ClipURL fetches the URL and extracts a recipe from its content using AI.
// The resulting dish is returned to the caller for review; it is not saved
// anywhere by the clipper itself.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*menu.Dish, *shared.AgentMeta, error) {
	start := time.Now()

	// 1. Fetch and clean HTML
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	// 2. Extract structured data via the LLM
	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "description": "One or two sentence summary",
  "ingredients": [{"text": "ingredient name", "store": "", "qty": 1}, ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "categories": ["e.g. Pasta", "e.g. Vegetarian"]
}
Leave "store" empty unless the page clearly names where to buy the ingredient.

Page Content:
%s
`, content)

	resp, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if strings.TrimSpace(extracted.Title) == "" {
		return nil, nil, fmt.Errorf("no recipe found at %s", url)
	}

	dish := &menu.Dish{
		ID:           menu.NewID(),
		Name:         strings.TrimSpace(extracted.Title),
		Description:  strings.TrimSpace(extracted.Description),
		Categories:   extracted.Categories,
		Instructions: strings.Join(extracted.Steps, "\n"),
	}
	for _, ing := range extracted.Ingredients {
		text := strings.TrimSpace(ing.Text)
		if text == "" {
			continue
		}
		qty := ing.Qty
		if qty <= 0 {
			qty = 1
		}
		dish.Ingredients = append(dish.Ingredients, menu.Ingredient{
			Text:     text,
			Store:    strings.TrimSpace(ing.Store),
			Quantity: qty,
		})
	}

	meta := &shared.AgentMeta{
		AgentName: "clipper",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	return dish, meta, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
