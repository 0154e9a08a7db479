package agent

import (
	"strings"

	"github.com/leaddesk/leaddesk/internal/crm"
)

// knownCompanies is a small built-in knowledge base used when no live
// research source is configured. Unknown domains fall back to a profile
// derived from the domain itself.
var knownCompanies = map[string]crm.CompanyResearch{
	"openai.com": {
		CompanyName: "OpenAI",
		Industry:    "Artificial Intelligence",
		Description: "OpenAI is an AI research and deployment company focused on ensuring artificial general intelligence benefits all of humanity.",
		Products:    []string{"ChatGPT", "GPT-4", "DALL-E", "Whisper"},
		RecentNews:  "Leading advancements in AI with GPT-4 and ChatGPT",
		KeyHighlights: []string{
			"Pioneer in large language models",
			"ChatGPT reached 100M users in 2 months",
			"Partnership with Microsoft",
		},
	},
	"stripe.com": {
		CompanyName: "Stripe",
		Industry:    "Financial Technology",
		Description: "Stripe is a technology company that builds economic infrastructure for the internet.",
		Products:    []string{"Payment Processing", "Stripe Connect", "Stripe Atlas"},
		RecentNews:  "Expanding global payment solutions",
		KeyHighlights: []string{
			"Processes billions in payments annually",
			"Used by millions of businesses",
			"Valued at $50B+",
		},
	},
}

// Research builds a company profile for a domain. Known domains return the
// curated profile; anything else gets a generic profile with the company
// name derived from the domain label.
func Research(domain string) crm.CompanyResearch {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if r, ok := knownCompanies[domain]; ok {
		return r
	}

	name := companyNameFromDomain(domain)
	return crm.CompanyResearch{
		CompanyName: name,
		Industry:    "Technology",
		Description: name + " is a company operating in the technology sector.",
		Products:    []string{"Product information not available"},
		RecentNews:  "Limited information available",
		KeyHighlights: []string{
			"Domain: " + domain,
			"Further research recommended",
		},
	}
}

// companyNameFromDomain derives a display name from a domain by stripping
// the TLD and title-casing the label: "acme-corp.io" -> "Acme-Corp".
func companyNameFromDomain(domain string) string {
	name := domain
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return domain
	}
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}
