package router

import (
	"fmt"
	"strings"

	"github.com/rcoe/askme/pkg/advisor"
)

// sectionSeparator underlines each advisor title in the decorated reply.
var sectionSeparator = strings.Repeat("─", 28)

// displayNames are the advisor titles shown in replies.
var displayNames = map[advisor.Intent]string{
	advisor.IntentGeneral: "General Agent 🤖",
	advisor.IntentFinance: "Finance Advisor 💰",
	advisor.IntentHR:      "HR Advisor 👥",
	advisor.IntentOrders:  "Orders Advisor 📦",
	advisor.IntentReports: "Reports Advisor 📊",
}

// followUpHints suggest what else each advisor can answer.
var followUpHints = map[advisor.Intent]string{
	advisor.IntentGeneral: "I can route your questions to Finance, HR, Orders, or Reports advisors.",
	advisor.IntentFinance: "You can also ask about budgets, expenses, or revenue forecasts.",
	advisor.IntentHR:      "Feel free to ask about benefits, leaves, or company policies.",
	advisor.IntentOrders:  "You can inquire about inventory levels or return rates as well.",
	advisor.IntentReports: "You can request analytics dashboards or workbook exports.",
}

// formatReply assembles the decorated reply from the advisor sections.
// A section carrying a staged artifact is returned undecorated so the
// presentation boundary can attach the download link cleanly.
func (r *Router) formatReply(sections []section) string {
	for _, s := range sections {
		if s.result.Artifact != nil {
			return s.result.Reply
		}
	}

	var b strings.Builder
	if len(sections) > 1 {
		b.WriteString("🎯 Multiple advisors have insights to share:\n\n")
	} else {
		b.WriteString("🎯 Here's what I found: ")
	}

	for _, s := range sections {
		b.WriteString(displayNames[s.domain])
		b.WriteString("\n")
		b.WriteString(sectionSeparator)
		b.WriteString("\n")
		b.WriteString(s.result.Reply)
		b.WriteString("\n")
	}

	if len(sections) == 1 {
		if hint, ok := followUpHints[sections[0].domain]; ok {
			b.WriteString("\n💡 " + hint)
		}
	}

	b.WriteString(fmt.Sprintf("\n\n⏰ %s", r.now().Format("15:04:05")))
	return b.String()
}
