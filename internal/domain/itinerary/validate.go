package itinerary

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateRequest checks the request fields and resolves its date range.
func ValidateRequest(req TripRequest, maxDays int) (Trip, error) {
	req.Destination = strings.TrimSpace(req.Destination)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	req.Budget = BudgetTier(strings.ToLower(strings.TrimSpace(string(req.Budget))))
	req.Group = strings.ToLower(strings.TrimSpace(req.Group))
	req.Interests = cleanTags(req.Interests)
	req.Accessibility = cleanTags(req.Accessibility)

	if err := validate.Struct(req); err != nil {
		return Trip{}, apperrors.Wrap(apperrors.CodeInvalidInput, describeValidation(err), err)
	}
	if req.Budget == "" {
		req.Budget = BudgetMid
	}
	if req.Group == "" {
		req.Group = "solo"
	}

	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		return Trip{}, apperrors.Wrap(apperrors.CodeInvalidInput, "startDate must be formatted as YYYY-MM-DD", err)
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		return Trip{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate must be formatted as YYYY-MM-DD", err)
	}
	days := util.DaysBetween(start, end)
	if days <= 0 {
		return Trip{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate must be after startDate", nil)
	}
	if maxDays <= 0 {
		maxDays = defaultTripMaxDays
	}
	if days > maxDays {
		return Trip{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("trip cannot exceed %d days", maxDays), nil)
	}
	return Trip{Request: req, Start: start, Days: days}, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fe.Field() + " must be formatted as YYYY-MM-DD"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s exceeds the maximum of %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		clean := strings.ToLower(strings.TrimSpace(tag))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}
