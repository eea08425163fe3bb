// Package prefill carries recipe data into the calendar's create form.
package prefill

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// TriggerValue is the OpenAddModal value that opens the create form.
const TriggerValue = "true"

// Params are the navigation parameters handed to the calendar screen.
type Params struct {
	PrefillTitle       string `json:"prefillTitle"`
	PrefillDescription string `json:"prefillDescription"`
	OpenAddModal       string `json:"openAddModal"`
}

// Active reports whether the parameters ask for the create form to open.
func (p Params) Active() bool {
	return p.OpenAddModal == TriggerValue
}

// Prefill is the title/description pair used to seed a new event.
type Prefill struct {
	Title       string
	Description string
}

// Bridge delivers a prefill at most once per external signal.
type Bridge struct {
	params   Params
	consumed bool
}

func NewBridge() *Bridge {
	return &Bridge{consumed: true}
}

// Offer records a fresh signal, replacing any unconsumed one.
func (b *Bridge) Offer(p Params) {
	b.params = p
	b.consumed = false
}

// Consume returns the pending prefill if the last offer was active and has
// not been consumed yet. Any offer is spent by the first call.
func (b *Bridge) Consume() (Prefill, bool) {
	if b.consumed {
		return Prefill{}, false
	}
	b.consumed = true
	if !b.params.Active() {
		return Prefill{}, false
	}
	return Prefill{Title: b.params.PrefillTitle, Description: b.params.PrefillDescription}, true
}

// Pending reports whether an unconsumed active offer is waiting.
func (b *Bridge) Pending() bool {
	return !b.consumed && b.params.Active()
}

// Opener is implemented by the calendar controller.
type Opener interface {
	OpenCreate(p *Prefill) bool
}

// Apply consumes the bridge and opens the create form when it was triggered.
// It reports whether the form was opened.
func Apply(o Opener, b *Bridge) bool {
	p, ok := b.Consume()
	if !ok {
		return false
	}
	return o.OpenCreate(&p)
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Original string `json:"original"`
}

// RecipeDetail is the subset of a recipe-detail payload needed to build a prefill.
type RecipeDetail struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image,omitempty"`
	Instructions        string       `json:"instructions"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
}

// ReadRecipe decodes a recipe-detail JSON document.
func ReadRecipe(r io.Reader) (RecipeDetail, error) {
	var recipe RecipeDetail
	if err := json.NewDecoder(r).Decode(&recipe); err != nil {
		return RecipeDetail{}, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return recipe, nil
}

var markupTag = regexp.MustCompile(`</?[^>]+(>|$)`)

// StripMarkup removes HTML-like tags, leaving their text content.
func StripMarkup(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

// FromRecipe builds active navigation parameters from a recipe. The
// description is the ingredient lines followed by the plain-text
// instructions, separated by a blank line. Empty parts are dropped.
func FromRecipe(r RecipeDetail) Params {
	var parts []string

	if len(r.ExtendedIngredients) > 0 {
		lines := make([]string, len(r.ExtendedIngredients))
		for i, ing := range r.ExtendedIngredients {
			lines[i] = ing.Original
		}
		if joined := strings.Join(lines, "\n"); joined != "" {
			parts = append(parts, joined)
		}
	}
	if instructions := StripMarkup(r.Instructions); instructions != "" {
		parts = append(parts, instructions)
	}

	return Params{
		PrefillTitle:       r.Title,
		PrefillDescription: strings.Join(parts, "\n\n"),
		OpenAddModal:       TriggerValue,
	}
}
