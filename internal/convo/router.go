package convo

import (
	"fmt"
	"strings"

	"aetv-bot/internal/catalog"
	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
)

// LeadEffect asks the recorder to append a lead.
type LeadEffect struct {
	ContactText string
	Source      domain.LeadSource
}

// OrderEffect asks the recorder to append an initiated order.
type OrderEffect struct {
	Plan catalog.PlanID
}

// Decision is the router's full output for one turn: the reply, the state to
// persist and the side effects to execute. The router itself touches no
// storage; the engine runs the effects.
type Decision struct {
	Branch      string
	Reply       string
	Next        domain.State
	PendingPlan *string
	Lead        *LeadEffect
	Order       *OrderEffect
	Notice      string
}

// Router is the conversation state machine. It is a pure decision function
// over (state, pending plan, detected language, text).
type Router struct {
	catalog *catalog.Catalog
}

// NewRouter builds a router over the given plan catalog.
func NewRouter(c *catalog.Catalog) *Router {
	return &Router{catalog: c}
}

// Decide evaluates the inbound text against the current state. Rules are
// checked in fixed precedence: the menu reset always wins, then support
// entry, then each multi-turn state's own handler interleaved with the
// remaining entry keywords, then the direct buy command, then the fallback.
func (r *Router) Decide(senderID string, snapshot domain.UserState, language lang.Language, text string) Decision {
	raw := strings.TrimSpace(text)
	t := strings.ToLower(raw)

	// Rule 1: menu keywords reset everything, from any state.
	if matches(menuKeywords, t) {
		return Decision{
			Branch: "menu",
			Reply:  welcomeBanner(language),
			Next:   domain.StateNone,
		}
	}

	// Rule 2: support entry, from any state.
	if matches(supportKeywords, t) {
		return Decision{
			Branch:      "support_entry",
			Reply:       supportPrompt(language),
			Next:        domain.StateSupportOpen,
			PendingPlan: snapshot.PendingPlan,
		}
	}

	// Rule 3: an open support flow consumes the whole message as the issue.
	if snapshot.State == domain.StateSupportOpen {
		return Decision{
			Branch:      "support_capture",
			Reply:       supportThanks,
			Next:        domain.StateNone,
			PendingPlan: snapshot.PendingPlan,
			Lead:        &LeadEffect{ContactText: raw, Source: domain.LeadSourceSupport},
			Notice:      fmt.Sprintf("🛠 Support lead from %s: %s", senderID, raw),
		}
	}

	// Rule 4: trial entry.
	if matches(trialKeywords, t) {
		return Decision{
			Branch:      "trial_entry",
			Reply:       trialPrompt(language),
			Next:        domain.StateAwaitingTrialContact,
			PendingPlan: snapshot.PendingPlan,
		}
	}

	// Rule 5: trial contact collection tests the raw text for an email or
	// phone; anything else re-prompts without falling through.
	if snapshot.State == domain.StateAwaitingTrialContact {
		if looksLikeContact(raw) {
			return Decision{
				Branch:      "trial_contact",
				Reply:       trialConfirm,
				Next:        domain.StateNone,
				PendingPlan: snapshot.PendingPlan,
				Lead:        &LeadEffect{ContactText: raw, Source: domain.LeadSourceTrial},
				Notice:      fmt.Sprintf("✅ Trial lead from %s: %s", senderID, raw),
			}
		}
		return Decision{
			Branch:      "trial_reprompt",
			Reply:       trialPrompt(language),
			Next:        domain.StateAwaitingTrialContact,
			PendingPlan: snapshot.PendingPlan,
		}
	}

	// Rule 6: offers entry.
	if matches(offersKeywords, t) {
		return Decision{
			Branch:      "offers",
			Reply:       offersReply(r.catalog, language),
			Next:        domain.StateAwaitingPackageChoice,
			PendingPlan: snapshot.PendingPlan,
		}
	}

	// Rule 7: package choice resolves aliases with substring containment.
	if snapshot.State == domain.StateAwaitingPackageChoice {
		if plan, ok := r.catalog.ResolveAlias(t); ok {
			planTag := string(plan)
			return Decision{
				Branch:      "package_choice",
				Reply:       orderReply(r.catalog, plan, language),
				Next:        domain.StateNone,
				PendingPlan: &planTag,
				Order:       &OrderEffect{Plan: plan},
				Notice:      fmt.Sprintf("🧾 Order from %s: plan %s", senderID, plan),
			}
		}
		return Decision{
			Branch:      "package_reprompt",
			Reply:       choosePrompt(language),
			Next:        domain.StateAwaitingPackageChoice,
			PendingPlan: snapshot.PendingPlan,
		}
	}

	// Rule 8: direct buy command, exact alias match only, from any state.
	if token, ok := strings.CutPrefix(t, "buy "); ok {
		if plan, resolved := r.catalog.ResolveExact(token); resolved {
			return Decision{
				Branch:      "buy",
				Reply:       orderReply(r.catalog, plan, language),
				Next:        snapshot.State,
				PendingPlan: snapshot.PendingPlan,
				Order:       &OrderEffect{Plan: plan},
				Notice:      fmt.Sprintf("🧾 Order from %s: plan %s", senderID, plan),
			}
		}
		return Decision{
			Branch:      "buy_unknown",
			Reply:       choosePrompt(language),
			Next:        snapshot.State,
			PendingPlan: snapshot.PendingPlan,
		}
	}

	// Rule 9: fallback, state unchanged.
	return Decision{
		Branch:      "fallback",
		Reply:       fallbackReply(language),
		Next:        snapshot.State,
		PendingPlan: snapshot.PendingPlan,
	}
}
