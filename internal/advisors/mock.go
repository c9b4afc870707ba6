package advisors

import (
	"strings"

	"github.com/rcoe/askme/pkg/advisor"
)

// Canned responses for demo deployments and for graceful degradation when a
// backend is unconfigured or unreachable. Keyed by a substring matched
// case-insensitively against the query; each domain names a default key.
var mockResponses = map[advisor.Intent]map[string]string{
	advisor.IntentGeneral: {
		"help":         "I am a General Agent that can assist you with Finance, HR, or Orders queries. I can route your questions to specialized advisors or provide general information.",
		"capabilities": "I can help you with:\n• Financial queries (revenue, budgets, expenses)\n• HR policies (benefits, leave, work policies)\n• Order management (status, inventory, returns)\n• General information and routing",
		"services":     "Our advisory system provides specialized assistance through dedicated agents for Finance, HR, and Orders. Ask me anything and I'll connect you with the right expert.",
	},
	advisor.IntentFinance: {
		"revenue":  "Based on our financial analysis, the Q3 revenue shows a 15% increase YoY with strong performance in APAC region.",
		"expenses": "Current expense trends indicate a 10% reduction in operational costs due to automation initiatives.",
		"budget":   "The annual budget allocation shows 40% for R&D, 30% for Operations, and 30% for Marketing.",
	},
	advisor.IntentHR: {
		"policy":   "Our work-from-home policy allows 3 days remote work per week with core hours from 10 AM to 4 PM.",
		"benefits": "Employee benefits include comprehensive health insurance, 401k matching up to 6%, and annual learning allowance.",
		"leave":    "Annual leave policy includes 20 days PTO, 10 sick days, and additional floating holidays.",
	},
	advisor.IntentOrders: {
		"status":    "Current order fulfillment rate is at 95% with average delivery time of 2.3 days.",
		"inventory": "Warehouse inventory levels are optimal with 98% stock availability.",
		"returns":   "Return rate is below industry average at 2.3% with high customer satisfaction.",
	},
	advisor.IntentReports: {
		"workbook":  "Your OAC workbook export is being prepared. This typically takes a few moments.",
		"analytics": "Analytics workbook export service is ready. Request a report and I'll generate it for you.",
		"export":    "Workbook export completed successfully. Download is ready.",
	},
}

// mockMatchOrder fixes the keyword check order per domain so a query
// containing two keywords always resolves the same way. The last entry is
// also the default when nothing matches.
var mockMatchOrder = map[advisor.Intent][]string{
	advisor.IntentGeneral: {"capabilities", "services", "help"},
	advisor.IntentFinance: {"revenue", "expenses", "budget"},
	advisor.IntentHR:      {"benefits", "leave", "policy"},
	advisor.IntentOrders:  {"inventory", "returns", "status"},
	advisor.IntentReports: {"workbook", "export", "analytics"},
}

// MockReply answers the query from the canned response table.
func MockReply(domain advisor.Intent, query string) string {
	responses := mockResponses[domain]
	order := mockMatchOrder[domain]
	ql := strings.ToLower(query)
	for _, keyword := range order {
		if strings.Contains(ql, keyword) {
			return responses[keyword]
		}
	}
	return responses[order[len(order)-1]]
}
