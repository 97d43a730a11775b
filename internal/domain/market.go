package domain

// Market holds the single-market constants every charge carries.
type Market struct {
	Country      string
	Currency     string
	DocumentType string
	PaymentFlow  string
	Description  string
}

func DefaultMarket() Market {
	return Market{
		Country:      "BR",
		Currency:     "BRL",
		DocumentType: "CPF",
		PaymentFlow:  "DIRECT",
		Description:  "Connector PayIn Request",
	}
}
