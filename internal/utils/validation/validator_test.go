package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleBody struct {
	ClientID uint   `json:"client_id" validate:"required"`
	Count    int    `json:"count" validate:"min=1,max=100"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(saleBody{ClientID: 7, Count: 3, Date: "2024-03-15"}))

	err := Struct(saleBody{Count: 0, Date: "15/03/2024"})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
	assert.Equal(t, "clientid", errs[0].Field)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Contains(t, err.Error(), "count: must be at least 1")
}
