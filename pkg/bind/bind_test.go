package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/bind"
)

type supplyInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	QtySupplied *int   `json:"qty_supplied" validate:"required,gte=0"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/supply/create/hm-100", strings.NewReader(body))
}

func TestJSONValid(t *testing.T) {
	var in supplyInput
	fields, err := bind.JSON(post(`{"name":"Acme","email":"a@x.io","phone":"1","qty_supplied":3}`), &in)
	require.NoError(t, err)
	assert.Nil(t, fields)
	assert.Equal(t, 3, *in.QtySupplied)
}

func TestJSONReportsFieldsByJSONName(t *testing.T) {
	var in supplyInput
	fields, err := bind.JSON(post(`{"name":"","email":"nope","qty_supplied":-1}`), &in)
	require.NoError(t, err)
	assert.Equal(t, "This field is required.", fields["name"])
	assert.Equal(t, "Enter a valid email address.", fields["email"])
	assert.Contains(t, fields["qty_supplied"], "greater than or equal to 0")
}

func TestJSONRejectsUnknownKeys(t *testing.T) {
	var in supplyInput
	_, err := bind.JSON(post(`{"name":"Acme","email":"a@x.io","qty_supplied":1,"slug":"x"}`), &in)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidParameter, apperr.KindOf(err))
	assert.Equal(t, `Field "slug" can not be set.`, apperr.Message(err))
}

func TestJSONMalformedAndEmpty(t *testing.T) {
	var in supplyInput
	_, err := bind.JSON(post(`{"name":`), &in)
	assert.True(t, apperr.Is(err, apperr.InvalidParameter))

	_, err = bind.JSON(post(``), &in)
	assert.Equal(t, "Request body is empty.", apperr.Message(err))

	_, err = bind.JSON(post(`{"qty_supplied":"three"}`), &in)
	assert.Equal(t, "Field qty_supplied has the wrong type.", apperr.Message(err))
}
