package api

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Bill is the estimated cost of one calendar month of API usage.
type Bill struct {
	Requests   int             `json:"requests"`
	PaymentUSD decimal.Decimal `json:"payment_usd"`
	PaymentCOP decimal.Decimal `json:"payment_cop"`
}

// UsageStats recomputes the current month's bill from the persisted daily
// counters and writes it back into the quota file. Only requests above the
// free-tier daily threshold are billed.
func (c *Client) UsageStats() (Bill, error) {
	pricePerRequest, err := decimal.NewFromString(c.cfg.PricePerRequestUSD)
	if err != nil {
		return Bill{}, fmt.Errorf("invalid price_per_request_usd: %w", err)
	}
	usdToCOP, err := decimal.NewFromString(c.cfg.USDToCOP)
	if err != nil {
		return Bill{}, fmt.Errorf("invalid usd_to_cop: %w", err)
	}

	month := c.now().Format("2006-01")
	billedRequests := 0
	for day, requests := range c.usage.DailyRequests {
		if strings.HasPrefix(day, month) && requests > c.cfg.FreeTierDailyLimit {
			billedRequests += requests - c.cfg.FreeTierDailyLimit
		}
	}

	paymentUSD := pricePerRequest.Mul(decimal.NewFromInt(int64(billedRequests)))
	bill := Bill{
		Requests:   billedRequests,
		PaymentUSD: paymentUSD,
		PaymentCOP: paymentUSD.Mul(usdToCOP),
	}

	c.usage.Bills[month] = bill
	if err := c.store.WriteJSON(c.usage, "util", usageFileName); err != nil {
		return Bill{}, fmt.Errorf("failed to persist usage stats: %w", err)
	}

	return bill, nil
}
