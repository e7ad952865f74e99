package catalog

import (
	"strings"

	"aetv-bot/internal/lang"
)

// PlanID identifies a subscription plan.
type PlanID string

const (
	PlanPremium   PlanID = "premium"
	PlanExecutive PlanID = "executive"
	PlanCasual    PlanID = "casual"
	PlanKids      PlanID = "kids"
)

// Plan is a static catalog entry: recognised aliases, bilingual display copy
// and the payment link handed out on order initiation.
type Plan struct {
	ID            PlanID
	Aliases       []string
	DescriptionEN string
	DescriptionAR string
	PayURL        string
}

// PaymentURLs carries the configured payment link per plan.
type PaymentURLs struct {
	Premium   string
	Executive string
	Casual    string
	Kids      string
}

// Catalog is the read-only plan lookup table. Plan iteration order is fixed
// (premium, executive, casual, kids); alias resolution depends on it.
type Catalog struct {
	plans []Plan
	byID  map[PlanID]*Plan
}

// New builds the catalog from static bilingual copy merged with the
// configured payment links.
func New(urls PaymentURLs) *Catalog {
	plans := []Plan{
		{
			ID:            PlanPremium,
			Aliases:       []string{"premium", "بريميوم"},
			DescriptionEN: "Premium — 12 months — UHD/4K — all sports, movies & series — 3 devices",
			DescriptionAR: "بريميوم — 12 شهراً — UHD/4K — كل الرياضة والأفلام والمسلسلات — 3 أجهزة",
			PayURL:        urls.Premium,
		},
		{
			ID:            PlanExecutive,
			Aliases:       []string{"executive", "اكزكتيف", "إكزكتيف"},
			DescriptionEN: "Executive — 12 months — FHD — sports & movies — 2 devices",
			DescriptionAR: "اكزكتيف — 12 شهراً — FHD — الرياضة والأفلام — جهازان",
			PayURL:        urls.Executive,
		},
		{
			ID:            PlanCasual,
			Aliases:       []string{"casual", "كاجوال"},
			DescriptionEN: "Casual — 12 months — HD — general entertainment — 1 device",
			DescriptionAR: "كاجوال — 12 شهراً — HD — الترفيه العام — جهاز واحد",
			PayURL:        urls.Casual,
		},
		{
			ID:            PlanKids,
			Aliases:       []string{"kids", "كيدز", "أطفال", "اطفال"},
			DescriptionEN: "Kids — 12 months — HD — cartoons & family-safe channels — 1 device",
			DescriptionAR: "كيدز — 12 شهراً — HD — قنوات الأطفال والعائلة — جهاز واحد",
			PayURL:        urls.Kids,
		},
	}

	byID := make(map[PlanID]*Plan, len(plans))
	for i := range plans {
		byID[plans[i].ID] = &plans[i]
	}
	return &Catalog{plans: plans, byID: byID}
}

// Plans returns catalog entries in fixed display order.
func (c *Catalog) Plans() []Plan {
	return c.plans
}

// Describe returns the display text for a plan in the requested language.
func (c *Catalog) Describe(id PlanID, l lang.Language) string {
	plan, ok := c.byID[id]
	if !ok {
		return ""
	}
	if l == lang.AR {
		return plan.DescriptionAR
	}
	return plan.DescriptionEN
}

// PayURL returns the payment link for a plan.
func (c *Catalog) PayURL(id PlanID) string {
	if plan, ok := c.byID[id]; ok {
		return plan.PayURL
	}
	return ""
}

// ResolveAlias resolves free text to a plan: first an exact alias match
// across all plans, then substring containment (the token contains an alias)
// in fixed plan order. The order matters for ambiguous input.
func (c *Catalog) ResolveAlias(token string) (PlanID, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return "", false
	}
	for _, plan := range c.plans {
		for _, alias := range plan.Aliases {
			if token == alias {
				return plan.ID, true
			}
		}
	}
	for _, plan := range c.plans {
		for _, alias := range plan.Aliases {
			if strings.Contains(token, alias) {
				return plan.ID, true
			}
		}
	}
	return "", false
}

// ResolveExact resolves a token by exact alias or plan id only. The buy
// command path deliberately skips substring matching.
func (c *Catalog) ResolveExact(token string) (PlanID, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return "", false
	}
	if _, ok := c.byID[PlanID(token)]; ok {
		return PlanID(token), true
	}
	for _, plan := range c.plans {
		for _, alias := range plan.Aliases {
			if token == alias {
				return plan.ID, true
			}
		}
	}
	return "", false
}
