package pipeline

import (
	"fmt"
	"slices"

	"eventflow/internal/config"
	"eventflow/internal/models"
)

// Check applies the configured rules to one decoded record
func Check(rules config.Rules, d models.Decoded) error {
	switch e := d.Event.(type) {
	case models.OrderPlaced:
		if e.TotalAmount < 0 {
			return fmt.Errorf("%w: negative order amount %.2f", ErrRuleViolation, e.TotalAmount)
		}
		if rules.MaxOrderAmount > 0 && e.TotalAmount > rules.MaxOrderAmount {
			return fmt.Errorf("%w: order amount %.2f exceeds %.2f", ErrRuleViolation, e.TotalAmount, rules.MaxOrderAmount)
		}
		return checkCurrency(rules, e.Currency)
	case models.PaymentSettled:
		return checkCurrency(rules, e.Currency)
	case models.InventoryAdjusted:
		if rules.MaxAdjustment > 0 && abs(e.Delta()) > rules.MaxAdjustment {
			return fmt.Errorf("%w: adjustment %d exceeds %d", ErrRuleViolation, e.Delta(), rules.MaxAdjustment)
		}
	}
	return nil
}

func checkCurrency(rules config.Rules, currency string) error {
	if len(rules.AllowedCurrencies) == 0 || slices.Contains(rules.AllowedCurrencies, currency) {
		return nil
	}
	return fmt.Errorf("%w: currency %q not allowed", ErrRuleViolation, currency)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
