package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personal struct {
	IDNumber string `json:"id_number" binding:"omitempty,id_number"`
	Phone    string `json:"phone" binding:"omitempty,vn_phone"`
}

type payload struct {
	Name     string    `json:"name" binding:"required"`
	Personal *personal `json:"personal_info" binding:"required"`
}

func bindBody(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	return Bind(c, &p)
}

func TestBind_Valid(t *testing.T) {
	fields := bindBody(t, `{"name":"An","personal_info":{"id_number":"001203004567","phone":"0912345678"}}`)
	assert.Nil(t, fields)
}

func TestBind_CustomTags(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"id number too short", `{"name":"An","personal_info":{"id_number":"12345"}}`, "personal_info.id_number"},
		{"id number with letters", `{"name":"An","personal_info":{"id_number":"12345678A"}}`, "personal_info.id_number"},
		{"phone wrong prefix", `{"name":"An","personal_info":{"phone":"0212345678"}}`, "personal_info.phone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := bindBody(t, tc.body)
			require.NotNil(t, fields)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestBind_NineDigitIDAndIntlPhone(t *testing.T) {
	fields := bindBody(t, `{"name":"An","personal_info":{"id_number":"123456789","phone":"+84912345678"}}`)
	assert.Nil(t, fields)
}

func TestBind_RequiredUsesJSONName(t *testing.T) {
	fields := bindBody(t, `{"personal_info":{}}`)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "name")
}

func TestBind_MalformedJSON(t *testing.T) {
	fields := bindBody(t, `{"name":`)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}
