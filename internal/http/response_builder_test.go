package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusAccepted).
		BodyHTML([]byte("<p>ok</p>")).
		Write(w)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "<p>ok</p>", w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Header().Get("HX-Trigger"))
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerReportRefreshed("budget.xlsx [Feuille 1]").
		TriggerSuccessNotification("Rapport actualisé").
		Write(w)

	var triggers map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers))
	assert.Equal(t, "budget.xlsx [Feuille 1]", triggers["report:refreshed"]["source"])
	assert.Equal(t, "success", triggers["show-notification"]["type"])
	assert.Equal(t, "Rapport actualisé", triggers["show-notification"]["message"])
	assert.EqualValues(t, 3000, triggers["show-notification"]["duration"])
}

func TestHTMXResponseBuilder_ErrorNotification(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().TriggerErrorNotification("échec").Write(w)
	assert.Contains(t, w.Header().Get("HX-Trigger"), `"type":"error"`)
	assert.Contains(t, w.Header().Get("HX-Trigger"), `"duration":5000`)
}

func TestErrorResponseEscapes(t *testing.T) {
	w := httptest.NewRecorder()
	InternalServerError("<script>x</script>").Header("Retry-After", "5").Write(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `<div class="error">&lt;script&gt;x&lt;/script&gt;</div>`, w.Body.String())
	assert.Equal(t, "5", w.Header().Get("Retry-After"))
}
