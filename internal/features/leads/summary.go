package leads

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const missingValue = "N/A"

func buildSubject(kind leadKind, senderName string) string {
	return fmt.Sprintf("%s %s", senderName, kind.subjectSuffix)
}

// buildSummary renders the plain-text body sent to the partner.
func buildSummary(kind leadKind, request *SendLeadRequestDTO, sentAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\nSent by %s\n\n", kind.heading, request.SenderName)

	b.WriteString("Property Information\n")
	writeLine(&b, "Property Address", request.PropertyAddress)
	writeLine(&b, "MLS #", leadValue(request.LeadData, "mlsNumber"))
	writeLine(&b, kind.priceLabel, leadValue(request.LeadData, kind.priceKey))
	writeLine(&b, "Closing Date", leadValue(request.LeadData, "closingDate"))

	for _, section := range kind.sections {
		fmt.Fprintf(&b, "\n%s\n", section.title)
		for _, field := range section.fields {
			writeLine(&b, field.label, leadValue(request.LeadData, field.key))
		}
	}

	b.WriteString("\nAgent Information\n")
	writeLine(&b, "Agent Name", request.SenderName)
	writeLine(&b, "Agent Email", leadValue(request.LeadData, "agentEmail"))
	writeLine(&b, "Agent Phone", leadValue(request.LeadData, "agentPhone"))
	writeLine(&b, "Brokerage", leadValue(request.LeadData, "brokerage"))

	b.WriteString("\nAdditional Notes\n")
	b.WriteString(leadValue(request.LeadData, "notes"))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\nSent via Pocket PRC on %s.\n", sentAt.UTC().Format("Monday, January 2, 2006 at 15:04 MST"))

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s: %s\n", label, value)
}

func leadValue(data map[string]any, key string) string {
	raw, ok := data[key]
	if !ok || raw == nil {
		return missingValue
	}

	var value string
	switch typed := raw.(type) {
	case float64:
		value = strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		value = strings.TrimSpace(fmt.Sprint(typed))
	}

	if value == "" {
		return missingValue
	}

	return value
}
