package cocktaildb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	maxIngredients = 15
	garnishMeasure = "Garnish with"
)

// Drink mirrors a drink record returned by the API.
type Drink struct {
	ID           string       `json:"idDrink"`
	Name         string       `json:"strDrink"`
	Thumbnail    string       `json:"strDrinkThumb"`
	Instructions string       `json:"strInstructions"`
	Glass        string       `json:"strGlass"`
	Category     string       `json:"strCategory"`
	Alcoholic    string       `json:"strAlcoholic"`
	Ingredients  []Ingredient `json:"-"`
}

// Ingredient is one ingredient line of a recipe.
type Ingredient struct {
	Name    string
	Measure string
}

// IsGarnish reports whether the ingredient is listed as a garnish.
func (i Ingredient) IsGarnish() bool {
	return strings.EqualFold(strings.TrimSpace(i.Measure), garnishMeasure)
}

// UnmarshalJSON decodes the flat strIngredientN/strMeasureN fields into
// Ingredients.
func (d *Drink) UnmarshalJSON(data []byte) error {
	type plain Drink
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := 1; i <= maxIngredients; i++ {
		name := stringField(raw, "strIngredient"+strconv.Itoa(i))
		if name == "" {
			continue
		}
		p.Ingredients = append(p.Ingredients, Ingredient{
			Name:    name,
			Measure: stringField(raw, "strMeasure"+strconv.Itoa(i)),
		})
	}
	*d = Drink(p)
	return nil
}

// NumericID parses the API id into the integer used for cart line items.
func (d Drink) NumericID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(d.ID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("drink id %q is not numeric: %w", d.ID, err)
	}
	return id, nil
}

// Clone returns a copy that shares no slices with d.
func (d Drink) Clone() Drink {
	if len(d.Ingredients) > 0 {
		d.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	}
	return d
}

// SplitGarnish separates garnish ingredients from the rest, keeping order.
func SplitGarnish(items []Ingredient) (core, garnish []Ingredient) {
	for _, item := range items {
		if item.IsGarnish() {
			garnish = append(garnish, item)
		} else {
			core = append(core, item)
		}
	}
	return core, garnish
}

// drinksResponse is the envelope shared by search.php and lookup.php.
type drinksResponse struct {
	Drinks json.RawMessage `json:"drinks"`
}

func (r drinksResponse) decode() ([]Drink, error) {
	trimmed := strings.TrimSpace(string(r.Drinks))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, `"`) {
		return nil, nil
	}
	var drinks []Drink
	if err := json.Unmarshal(r.Drinks, &drinks); err != nil {
		return nil, err
	}
	return drinks, nil
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}
