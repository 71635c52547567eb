package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerInfoBasic(t *testing.T) {
	require.NotNil(t, SwaggerInfo)
	assert.NotEmpty(t, SwaggerInfo.Title)
	assert.True(t, strings.Contains(SwaggerInfo.SwaggerTemplate, "paths"))
}

func TestSwaggerDocIsValidJSON(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	paths, ok := parsed["paths"].(map[string]interface{})
	require.True(t, ok)
	for _, p := range []string{"/api/catalog", "/api/assess", "/api/records", "/api/records/{id}"} {
		assert.Contains(t, paths, p)
	}
}
