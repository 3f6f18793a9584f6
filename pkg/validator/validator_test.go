package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanInput struct {
	ProductID uuid.UUID `validate:"uuid_required"`
	Quantity  int       `validate:"gt=0"`
}

func TestValidateStructUUIDRequired(t *testing.T) {
	errs := ValidateStruct(&scanInput{Quantity: 1})
	require.Len(t, errs, 1)
	assert.Equal(t, "uuid_required", errs[0].Tag)

	errs = ValidateStruct(&scanInput{ProductID: uuid.New(), Quantity: 1})
	assert.Empty(t, errs)
}

func TestDescribe(t *testing.T) {
	errs := ValidateStruct(&scanInput{ProductID: uuid.New()})
	require.NotEmpty(t, errs)
	assert.Equal(t, "validation failed: field 'scanInput.Quantity' failed on tag 'gt'", Describe(errs))

	assert.Empty(t, Describe(nil))
}
