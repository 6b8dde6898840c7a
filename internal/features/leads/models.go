package leads

import "pocketprc/internal/features/activity_logs"

type leadField struct {
	label string
	key   string
}

type leadSection struct {
	title  string
	fields []leadField
}

// leadKind describes one partner hand-off: where it goes and which fields
// the partner wants to see.
type leadKind struct {
	action        string
	partnerName   string
	subjectSuffix string
	heading       string
	priceLabel    string
	priceKey      string
	sections      []leadSection
}

var underContractLead = leadKind{
	action:        activity_logs.ActionLeadMainland,
	partnerName:   "Mainland Title LLC",
	subjectSuffix: "has sent you a new Under Contract Lead",
	heading:       "New Under Contract Lead",
	priceLabel:    "Offer Price",
	priceKey:      "offerPrice",
	sections: []leadSection{
		{
			title: "Buyer Information",
			fields: []leadField{
				{"Buyer Name", "buyerName"},
				{"Buyer Email", "buyerEmail"},
				{"Buyer Phone", "buyerPhone"},
				{"Lender", "lender"},
				{"Loan Type", "loanType"},
			},
		},
	},
}

var rateRequestLead = leadKind{
	action:        activity_logs.ActionRateRequest,
	partnerName:   "Annie Mac Home Mortgage",
	subjectSuffix: "is requesting a rate comparison for their buyer",
	heading:       "Rate Comparison Request",
	priceLabel:    "Purchase Price",
	priceKey:      "purchasePrice",
	sections: []leadSection{
		{
			title: "Buyer Information",
			fields: []leadField{
				{"Buyer Name", "buyerName"},
				{"Buyer Email", "buyerEmail"},
				{"Buyer Phone", "buyerPhone"},
			},
		},
		{
			title: "Current Financing",
			fields: []leadField{
				{"Current Lender", "currentLender"},
				{"Loan Type", "loanType"},
				{"Down Payment", "downPayment"},
				{"Est. Credit Score", "creditScore"},
			},
		},
	},
}
