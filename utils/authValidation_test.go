package utils

import (
	"ChemoOrder/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("somying_n", "secret123"))
	assert.Error(t, ValidateLogin("", "secret123"))
	assert.Error(t, ValidateLogin("somying_n", ""))
}

func TestValidateOrderPayload(t *testing.T) {
	patient := models.Patient{HN: "HN001234", FullName: "Jane Doe"}
	drugs := []models.OrderDrug{{DrugID: "oxaliplatin", Dose: "85 mg/m2", Day: "1"}}

	assert.NoError(t, ValidateOrderPayload(patient, drugs))

	err := ValidateOrderPayload(models.Patient{}, drugs)
	assert.ErrorIs(t, err, ErrMissingPatientHN)

	err = ValidateOrderPayload(patient, nil)
	assert.ErrorIs(t, err, ErrEmptyDrugList)

	err = ValidateOrderPayload(patient, []models.OrderDrug{{Dose: "85 mg/m2"}})
	assert.Error(t, err)
}

func TestValidateSharedImage(t *testing.T) {
	mime, data, err := ValidateSharedImage("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "aGVsbG8=", data)

	_, _, err = ValidateSharedImage("")
	assert.Error(t, err)

	_, _, err = ValidateSharedImage("data:text/html;base64,aGVsbG8=")
	assert.Error(t, err)

	_, _, err = ValidateSharedImage("plain text")
	assert.Error(t, err)
}

func TestValidatePasswordReset(t *testing.T) {
	assert.NoError(t, ValidatePasswordReset("123456", "longenough"))
	assert.Error(t, ValidatePasswordReset("", "longenough"))
	assert.Error(t, ValidatePasswordReset("123456", "short"))
}
