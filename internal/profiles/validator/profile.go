package validator

import (
	"errors"
	"fmt"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ProfileValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewProfileValidator(log *logger.Logger) *ProfileValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm_time", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm_time' validator", "error", err)
	}
	if err := v.RegisterValidation("day_rules", validateDayRules); err != nil {
		log.Fatal("Failed to register 'day_rules' validator", "error", err)
	}

	return &ProfileValidator{
		validate: v,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	_, err := time.Parse(model.TimeOfDayLayout, s)
	return err == nil
}

// validateDayRules checks the structural invariant on the fixed weekly
// array: each slot's weekday matches its index, and every available day
// carries a well-ordered window.
func validateDayRules(fl validator.FieldLevel) bool {
	days, ok := fl.Field().Interface().([7]model.DayRule)
	if !ok {
		return false
	}

	for i, rule := range days {
		if rule.Weekday != time.Weekday(i) {
			return false
		}
		if !rule.Available {
			continue
		}
		start, err := time.Parse(model.TimeOfDayLayout, rule.WindowStart)
		if err != nil {
			return false
		}
		end, err := time.Parse(model.TimeOfDayLayout, rule.WindowEnd)
		if err != nil {
			return false
		}
		if !start.Before(end) {
			return false
		}
	}
	return true
}

func (v *ProfileValidator) Validate(profile *model.AvailabilityProfile) error {
	if err := v.validate.Struct(profile); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ProfileValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "hhmm_time":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "day_rules":
			message = "days must cover all seven weekdays in order, with window_start before window_end on available days"
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
