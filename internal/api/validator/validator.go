package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"shepherd/internal/authz"
	"shepherd/internal/models"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	// Register custom validation tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	err := v.RegisterValidation("user_role", validateUserRole)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("registration_status", validateRegistrationStatus)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("transfer_status", validateTransferStatus)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("confirmation_status", validateConfirmationStatus)
	if err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	return authz.IsValidRole(authz.Role(fl.Field().String()))
}

func validateRegistrationStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidRegistrationStatus(models.RegistrationStatus(fl.Field().String()))
}

// validateConfirmationStatus admits only the statuses a confirmation action
// may target.
func validateConfirmationStatus(fl playgroundvalidator.FieldLevel) bool {
	switch models.RegistrationStatus(fl.Field().String()) {
	case models.RegistrationStatusAttended, models.RegistrationStatusNoShow, models.RegistrationStatusRegistered:
		return true
	default:
		return false
	}
}

func validateTransferStatus(fl playgroundvalidator.FieldLevel) bool {
	status := models.TransferStatus(fl.Field().String())
	return status == models.TransferStatusPending ||
		status == models.TransferStatusApproved ||
		status == models.TransferStatusRejected
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// ConfirmRequest Request validation structs based on the workflow operations
type ConfirmRequest struct {
	Status string `json:"status" validate:"required,confirmation_status"`
}

type BulkConfirmRequest struct {
	RegistrationIDs []string `json:"registrationIds" validate:"required,min=1,dive,uuid"`
	Status          string   `json:"status" validate:"required,oneof=attended no_show"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,min=10"`
}

type RegisterRequest struct {
	MemberID  string `json:"memberId" validate:"omitempty,uuid"`
	VisitorID string `json:"visitorId" validate:"omitempty,uuid"`
	Notes     string `json:"notes"`
}

type BulkRegisterRequest struct {
	Candidates []RegisterRequest `json:"candidates" validate:"required,min=1,dive"`
}

type CreateTransferRequest struct {
	MemberID   string `json:"memberId" validate:"required,uuid"`
	ToChurchID string `json:"toChurchId" validate:"required,uuid"`
	Reason     string `json:"reason"`
}

type BulkTransferRequest struct {
	MemberIDs  []string `json:"memberIds" validate:"required,min=1,dive,uuid"`
	ToChurchID string   `json:"toChurchId" validate:"required,uuid"`
	Reason     string   `json:"reason"`
}

type RejectTransferRequest struct {
	Reason string `json:"reason" validate:"required,min=10"`
}
