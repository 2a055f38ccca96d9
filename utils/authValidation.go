package utils

import (
	"ChemoOrder/models"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation errors
var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrMissingPatientHN = errors.New("patient HN is required")
	ErrEmptyDrugList    = errors.New("at least one drug entry is required")
)

var dataURIPattern = regexp.MustCompile(`^data:(image/[a-zA-Z0-9.+-]+);base64,(.+)$`)

// ValidateLogin validates the login payload.
func ValidateLogin(username, password string) error {
	return validation.Errors{
		"username": validation.Validate(username, validation.Required, validation.Length(1, 100)),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
}

// ValidateOrderPayload checks the deserialized multipart fields of an order
// create/update request: the patient must carry an HN and the drugs list
// must be non-empty and well formed.
func ValidateOrderPayload(patient models.Patient, drugs []models.OrderDrug) error {
	if patient.HN == "" {
		return ErrMissingPatientHN
	}
	if len(drugs) == 0 {
		return ErrEmptyDrugList
	}
	for _, drug := range drugs {
		if err := validation.ValidateStruct(&drug,
			validation.Field(&drug.DrugID, validation.Required),
		); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSharedImage checks the share payload and returns the mime type and
// raw base64 body when the data URI is well formed.
func ValidateSharedImage(imageBase64 string) (mimeType, base64Data string, err error) {
	if err := validation.Validate(imageBase64, validation.Required); err != nil {
		return "", "", errors.New("imageBase64 is required")
	}
	match := dataURIPattern.FindStringSubmatch(imageBase64)
	if match == nil {
		return "", "", errors.New("invalid image data")
	}
	return match[1], match[2], nil
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	err := validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
	return err
}

// validatePassword checks the password for minimum length.
func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
