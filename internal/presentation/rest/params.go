package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
)

// parseOfferFilters reads the catalog bounds from the query string. Absent
// or empty parameters leave the bound unset. minScore is a switch: any
// positive number or "true" restricts the catalog to the caller's score.
func parseOfferFilters(q url.Values) (dto.OfferFiltersRequest, error) {
	var (
		f   dto.OfferFiltersRequest
		err error
	)
	if f.MinAmount, err = decimalParam(q, "minAmount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = decimalParam(q, "maxAmount"); err != nil {
		return f, err
	}
	if f.MaxInterestRate, err = decimalParam(q, "maxInterestRate"); err != nil {
		return f, err
	}
	if f.MinInstallments, err = intParam(q, "minInstallments"); err != nil {
		return f, err
	}
	if f.MaxInstallments, err = intParam(q, "maxInstallments"); err != nil {
		return f, err
	}
	if f.MinScore, err = scoreSwitch(q, "minScore"); err != nil {
		return f, err
	}
	return f, nil
}

func decimalParam(q url.Values, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", usecase.ErrInvalidRequest, name)
	}
	return &d, nil
}

func intParam(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidRequest, name)
	}
	return &n, nil
}

func scoreSwitch(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	if on, err := strconv.ParseBool(raw); err == nil {
		if !on {
			return nil, nil
		}
		zero := 0
		return &zero, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean or an integer", usecase.ErrInvalidRequest, name)
	}
	if n <= 0 {
		return nil, nil
	}
	return &n, nil
}
