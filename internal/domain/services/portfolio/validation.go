package portfolio

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/folio-service/folio_service/internal/domain/entities"
	apperrors "github.com/folio-service/folio_service/pkg/errors"
)

var titleCaser = cases.Title(language.English)

// storedScale is the number of fractional digits the store keeps for shares,
// prices and totals (NUMERIC(_, 6)).
const storedScale = 6

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so details match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Decimals validate through their exact string form, never a float.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("positive", decimalRule(func(d decimal.Decimal) bool { return d.IsPositive() }))
	_ = v.RegisterValidation("nonnegative", decimalRule(func(d decimal.Decimal) bool { return !d.IsNegative() }))
	_ = v.RegisterValidation("scale", decimalRule(func(d decimal.Decimal) bool { return d.Exponent() >= -storedScale }))

	// Dates validate as the wrapped time so required rejects the zero value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	return v
}

func decimalRule(check func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return check(d)
	}
}

// validateStruct runs tag validation and returns a field-detailed validation error
func (s *Service) validateStruct(in interface{}) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperrors.NewFieldError("invalid request", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "positive":
		return "must be greater than 0"
	case "nonnegative":
		return "must be greater than or equal to 0"
	case "scale":
		return fmt.Sprintf("must have at most %d decimal places", storedScale)
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// normalizeName collapses whitespace and title-cases an enum name, so
// "  mutual   FUND" becomes "Mutual Fund".
func normalizeName(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

func parseRiskLevel(s string) (entities.RiskLevel, error) {
	level := entities.RiskLevel(normalizeName(s))
	if !level.IsValid() {
		return "", apperrors.NewFieldError("invalid request", map[string]string{
			"risk_level": "must be one of Low, Moderate, High",
		})
	}
	return level, nil
}

// compactName lowercases s and drops all whitespace, so "MutualFund",
// "mutual fund" and "Mutual  Fund" compare equal.
func compactName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func parseInvestmentType(s string) (entities.InvestmentType, error) {
	key := compactName(s)
	for _, t := range entities.InvestmentTypes {
		if compactName(string(t)) == key {
			return t, nil
		}
	}
	return "", apperrors.NewFieldError("invalid request", map[string]string{
		"type": "must be one of Stock, Bond, Mutual Fund",
	})
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func requireNonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewFieldError("invalid request", map[string]string{field: "must not be blank"})
	}
	return nil
}
