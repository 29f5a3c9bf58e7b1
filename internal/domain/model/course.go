package model

// Course carries the metadata the payment pipeline needs: price, currency,
// the gateway price id used at checkout, and the lesson count used to
// initialize progress. Content management lives outside this service.
type Course struct {
	ID             string
	Title          string
	Price          int64 // minor units
	Currency       string
	GatewayPriceID string // empty means the platform default price is used
	TotalLessons   int
}
