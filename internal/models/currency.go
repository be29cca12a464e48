package models

// Currency is the database representation of a supported currency.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	Precision    int    `db:"precision"`
	AuditFields
}
