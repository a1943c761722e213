package service

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/common"
	"github.com/ledgerline/ledgerline/internal/model"
)

var maxPercent = decimal.NewFromInt(100)

// validateOrder rejects bad order input before any write happens. The percent
// notation ambiguity is flagged, not resolved: a share below 1 is accepted as
// a fraction but logged, since "0.4" may be a typo for 0.4%.
func (s *Service) validateOrder(in OrderInput) error {
	if in.Client == "" {
		return common.NewValidationError("client", "must not be empty")
	}
	if !in.Amount.IsPositive() {
		return common.NewValidationError("amount", "must be positive")
	}
	if in.Paid.IsNegative() {
		return common.NewValidationError("paid", "must not be negative")
	}

	if in.Designer == "" {
		return nil
	}

	switch in.Model {
	case model.ModelPercent:
		if in.Percent.IsNegative() || in.Percent.GreaterThan(maxPercent) {
			return common.NewValidationError("percent", "must be between 0 and 100")
		}
		if in.Percent.IsPositive() && in.Percent.LessThan(decimal.NewFromInt(1)) {
			s.logger.Warn("percent below 1 interpreted as a fraction",
				"client", in.Client, "designer", in.Designer, "percent", in.Percent)
		}
	case model.ModelSalary:
		if !in.Salary.IsPositive() {
			return common.NewValidationError("salary", "must be positive")
		}
		if in.Salary.GreaterThan(in.Amount) {
			return common.NewValidationError("salary", "must not exceed the order amount")
		}
	default:
		return common.NewValidationError("model", "must be percent or salary")
	}
	return nil
}

func validatePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.NewValidationError(field, "must be positive")
	}
	return nil
}

func validateName(field, name string) error {
	if name == "" {
		return common.NewValidationError(field, "must not be empty")
	}
	return nil
}
