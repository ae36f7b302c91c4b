package engine

import (
	"github.com/mazraati/assistant-platform/internal/model"
)

// Fixed action descriptors. Labels are user-visible platform content.
var (
	actionStartNow = model.SuggestedAction{
		Label:  "ابدأ الآن",
		Action: "start_now",
		URL:    "/register",
	}
	actionExploreOpportunities = model.SuggestedAction{
		Label:  "استكشف الفرص الاستثمارية",
		Action: "explore_opportunities",
		URL:    "/farms",
	}
	actionViewPortfolio = model.SuggestedAction{
		Label:  "تابع محفظتك",
		Action: "view_portfolio",
		URL:    "/portfolio",
	}
	actionPartnerDashboard = model.SuggestedAction{
		Label:  "لوحة الشريك",
		Action: "partner_dashboard",
		URL:    "/partner",
	}
	actionBrowseFAQ = model.SuggestedAction{
		Label:  "تصفح الأسئلة الشائعة",
		Action: "browse_faq",
		URL:    "/faq",
	}
	actionContactSupport = model.SuggestedAction{
		Label:  "تواصل مع الدعم",
		Action: "contact_support",
		URL:    "/support",
	}
)

// actionsForAudience maps the closed audience enumeration to follow-up
// actions offered alongside an accepted answer. The switch is exhaustive
// over session audiences; answers' "all" never reaches here.
func actionsForAudience(a model.Audience) []model.SuggestedAction {
	switch a {
	case model.AudienceVisitor:
		return []model.SuggestedAction{actionStartNow}
	case model.AudienceAuthenticated:
		return []model.SuggestedAction{actionExploreOpportunities}
	case model.AudienceInvestor:
		return []model.SuggestedAction{actionViewPortfolio}
	case model.AudiencePartner:
		return []model.SuggestedAction{actionPartnerDashboard}
	case model.AudienceAdmin:
		return nil
	default:
		return []model.SuggestedAction{actionStartNow}
	}
}

// fallbackActions are the two generic recovery actions every fallback and
// failure response carries.
func fallbackActions() []model.SuggestedAction {
	return []model.SuggestedAction{actionBrowseFAQ, actionContactSupport}
}

// escalationActions returns the single human-contact action when a scenario
// redirects to support.
func escalationActions(redirect bool) []model.SuggestedAction {
	if !redirect {
		return nil
	}
	return []model.SuggestedAction{actionContactSupport}
}
