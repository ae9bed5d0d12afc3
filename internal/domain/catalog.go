package domain

import (
	"math"
	"strconv"
)

const DefaultLang = "en"

// Categories lists catalog sections in display order.
var Categories = []string{"audio", "camera", "gps"}

type CatalogItem struct {
	ID           int64               `json:"id"`
	Names        map[string]string   `json:"names"`
	Descriptions map[string]string   `json:"descriptions"`
	Prices       map[string]string   `json:"prices"`
	Features     map[string][]string `json:"features,omitempty"`
	Badge        map[string]string   `json:"badge,omitempty"`
	BadgeColor   string              `json:"badgeColor,omitempty"`
	Warranty     map[string]string   `json:"warranty,omitempty"`
	Image        string              `json:"image,omitempty"`
	Icon         string              `json:"icon,omitempty"`
	Category     string              `json:"category"`
	GPSTracking  bool                `json:"gpsTracking,omitempty"`
}

func localized(m map[string]string, lang string) string {
	if v := m[lang]; v != "" {
		return v
	}
	return m[DefaultLang]
}

func (c CatalogItem) Name(lang string) string        { return localized(c.Names, lang) }
func (c CatalogItem) Description(lang string) string { return localized(c.Descriptions, lang) }
func (c CatalogItem) Price(lang string) string       { return localized(c.Prices, lang) }

// ItemView is a CatalogItem flattened to a single language.
type ItemView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Features    []string `json:"features,omitempty"`
	Badge       string   `json:"badge,omitempty"`
	BadgeColor  string   `json:"badgeColor,omitempty"`
	Warranty    string   `json:"warranty,omitempty"`
	Image       string   `json:"image,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Category    string   `json:"category"`
	GPSTracking bool     `json:"gpsTracking,omitempty"`
}

func (c CatalogItem) View(lang string) ItemView {
	features := c.Features[lang]
	if len(features) == 0 {
		features = c.Features[DefaultLang]
	}
	return ItemView{
		ID:          c.ID,
		Name:        c.Name(lang),
		Description: c.Description(lang),
		Price:       c.Price(lang),
		Features:    features,
		Badge:       localized(c.Badge, lang),
		BadgeColor:  c.BadgeColor,
		Warranty:    localized(c.Warranty, lang),
		Image:       c.Image,
		Icon:        c.Icon,
		Category:    c.Category,
		GPSTracking: c.GPSTracking,
	}
}

// Catalog is the read-only reference data. It is built once at startup and
// shared by pointer; nothing mutates it afterwards.
type Catalog struct {
	Rentals map[string][]CatalogItem
	Sales   map[string][]CatalogItem
}

// List returns the items of one kind in category order.
func (c *Catalog) List(kind ActionType) []CatalogItem {
	if c == nil {
		return nil
	}
	src := c.Rentals
	if kind == ActionBuy {
		src = c.Sales
	}
	var out []CatalogItem
	for _, cat := range Categories {
		out = append(out, src[cat]...)
	}
	return out
}

// Find looks up an item of the given kind. Ids match numerically, so "3",
// "03" and 3 all find item 3.
func (c *Catalog) Find(kind ActionType, ref ItemRef) (CatalogItem, bool) {
	if c == nil || ref.IsZero() {
		return CatalogItem{}, false
	}
	want, err := strconv.ParseFloat(ref.String(), 64)
	if err != nil || math.IsNaN(want) {
		return CatalogItem{}, false
	}
	for _, it := range c.List(kind) {
		if float64(it.ID) == want {
			return it, true
		}
	}
	return CatalogItem{}, false
}

func (c *Catalog) Size() int {
	return len(c.List(ActionRent)) + len(c.List(ActionBuy))
}
