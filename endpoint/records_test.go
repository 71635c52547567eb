package endpoint

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePatient() model.Patient {
	return model.Patient{
		PatientID:    "Jane Doe",
		Age:          52,
		Gender:       "Female",
		Duration:     7,
		Symptoms:     "Persistent cough,Wheezing",
		CancerType:   "Lung Cancer",
		Severity:     "Moderate",
		Urgency:      "Doctor Visit Recommended",
		Confidence:   63.5,
		SurvivalProb: 0.41,
	}
}

func TestProtectedRoutes_RedirectWithoutSession(t *testing.T) {
	env := setupEndpointTest(t)
	p := seedPatient(t, env.DB, samplePatient())
	id := fmt.Sprint(p.ID)

	cases := []requestSpec{
		{method: http.MethodGet, path: "/records"},
		{method: http.MethodGet, path: "/edit/" + id},
		{method: http.MethodPost, path: "/edit/" + id, form: url.Values{"age": {"99"}}},
		{method: http.MethodGet, path: "/delete/" + id},
		{method: http.MethodGet, path: "/add"},
		{method: http.MethodPost, path: "/add", form: url.Values{"patient_id": {"intruder"}}},
		{method: http.MethodGet, path: "/download/anything.png"},
		{method: http.MethodGet, path: "/api/records"},
		{method: http.MethodGet, path: "/api/records/" + id},
	}
	for _, spec := range cases {
		t.Run(spec.method+" "+spec.path, func(t *testing.T) {
			w := performRequest(env.Router, spec)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
		})
	}

	// None of the guarded handlers ran.
	assert.Equal(t, int64(1), countPatients(t, env.DB))
	var stored model.Patient
	require.NoError(t, env.DB.First(&stored, p.ID).Error)
	assert.Equal(t, 52, stored.Age)
}

func TestProtectedRoutes_ForgedCookieRedirects(t *testing.T) {
	env := setupEndpointTest(t)

	w := performRequest(env.Router, requestSpec{
		method: http.MethodGet,
		path:   "/records",
		cookie: &http.Cookie{Name: middleware.SessionCookie, Value: "not-a-token"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
}

func TestListRecords_NewestFirst(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)

	first := samplePatient()
	first.PatientID = "first-patient"
	second := samplePatient()
	second.PatientID = "second-patient"
	seedPatient(t, env.DB, first)
	seedPatient(t, env.DB, second)

	w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: "/records", cookie: cookie})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Signed in as admin")
	assert.Contains(t, body, "63.5")
	assert.Contains(t, body, "41.0%")
	iFirst := strings.Index(body, "first-patient")
	iSecond := strings.Index(body, "second-patient")
	require.NotEqual(t, -1, iFirst)
	require.NotEqual(t, -1, iSecond)
	assert.Less(t, iSecond, iFirst)
}

func TestListRecords_Empty(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)

	w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: "/records", cookie: cookie})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No records yet.")
}

func TestShowEditRecord(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)
	p := seedPatient(t, env.DB, samplePatient())

	w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/edit/%d", p.ID), cookie: cookie})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, fmt.Sprintf(`action="/edit/%d"`, p.ID))
	assert.Contains(t, body, `value="Jane Doe"`)
}

func TestEditRecord_NotFound(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)

	for _, path := range []string{"/edit/999", "/edit/abc", "/edit/0", "/edit/-1"} {
		w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: path, cookie: cookie})
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		w = performRequest(env.Router, requestSpec{method: http.MethodPost, path: path, cookie: cookie, form: url.Values{"age": {"1"}}})
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	assert.Equal(t, int64(0), countPatients(t, env.DB))
}

func TestUpdateRecord_ChangesOnlySubmittedFields(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)
	original := seedPatient(t, env.DB, samplePatient())

	w := performRequest(env.Router, requestSpec{
		method: http.MethodPost,
		path:   fmt.Sprintf("/edit/%d", original.ID),
		cookie: cookie,
		form: url.Values{
			"age":      {"60"},
			"severity": {"High"},
			"urgency":  {"Immediate Medical Attention"},
		},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/records", w.Header().Get("Location"))

	var updated model.Patient
	require.NoError(t, env.DB.First(&updated, original.ID).Error)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, 60, updated.Age)
	assert.Equal(t, "High", updated.Severity)
	assert.Equal(t, "Immediate Medical Attention", updated.Urgency)

	assert.Equal(t, original.PatientID, updated.PatientID)
	assert.Equal(t, original.Gender, updated.Gender)
	assert.Equal(t, original.Duration, updated.Duration)
	assert.Equal(t, original.Symptoms, updated.Symptoms)
	assert.Equal(t, original.CancerType, updated.CancerType)
	assert.InDelta(t, original.Confidence, updated.Confidence, 1e-9)
	assert.InDelta(t, original.SurvivalProb, updated.SurvivalProb, 1e-9)
	assert.Equal(t, int64(1), countPatients(t, env.DB))
}

func TestUpdateRecord_MalformedNumberKeepsValue(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)
	original := seedPatient(t, env.DB, samplePatient())

	w := performRequest(env.Router, requestSpec{
		method: http.MethodPost,
		path:   fmt.Sprintf("/edit/%d", original.ID),
		cookie: cookie,
		form:   url.Values{"age": {"old"}, "confidence": {"n/a"}, "gender": {"  Male "}},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var updated model.Patient
	require.NoError(t, env.DB.First(&updated, original.ID).Error)
	assert.Equal(t, 52, updated.Age)
	assert.InDelta(t, 63.5, updated.Confidence, 1e-9)
	assert.Equal(t, "Male", updated.Gender)
}

func TestDeleteRecord(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)
	keep := samplePatient()
	keep.PatientID = "kept-patient"
	gone := samplePatient()
	gone.PatientID = "deleted-patient"
	seedPatient(t, env.DB, keep)
	removed := seedPatient(t, env.DB, gone)

	w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/delete/%d", removed.ID), cookie: cookie})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/records", w.Header().Get("Location"))

	w = performRequest(env.Router, requestSpec{method: http.MethodGet, path: "/records", cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kept-patient")
	assert.NotContains(t, w.Body.String(), "deleted-patient")
	assert.Equal(t, int64(1), countPatients(t, env.DB))

	// Deleting an unknown id still returns to the list.
	w = performRequest(env.Router, requestSpec{method: http.MethodGet, path: "/delete/12345", cookie: cookie})
	assert.Equal(t, http.StatusFound, w.Code)

	w = performRequest(env.Router, requestSpec{method: http.MethodGet, path: "/delete/abc", cookie: cookie})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShowAddRecord(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)

	w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: "/add", cookie: cookie})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/add"`)
}

func TestAddRecord_RoundTrip(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)

	w := performRequest(env.Router, requestSpec{
		method: http.MethodPost,
		path:   "/add",
		cookie: cookie,
		form: url.Values{
			"patient_id":  {"P-100"},
			"age":         {"70"},
			"gender":      {"Male"},
			"duration":    {"12"},
			"symptoms":    {"Weak urine flow, Blood in semen or pee"},
			"cancer_type": {"Prostate Cancer"},
			"severity":    {"High"},
			"urgency":     {"Immediate Medical Attention"},
			"confidence":  {"81.5"},
			"survival":    {"35"},
		},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/records", w.Header().Get("Location"))

	var stored model.Patient
	require.NoError(t, env.DB.Where("patient_id = ?", "P-100").First(&stored).Error)

	w = performRequest(env.Router, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/api/records/%d", stored.ID), cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "P-100", data["patient_id"])
	assert.Equal(t, float64(70), data["age"])
	assert.Equal(t, "Male", data["gender"])
	assert.Equal(t, float64(12), data["duration"])
	assert.Equal(t, "Weak urine flow,Blood in semen or pee", data["symptoms"])
	assert.Equal(t, "Prostate Cancer", data["cancer_type"])
	assert.Equal(t, "High", data["severity"])
	assert.Equal(t, "Immediate Medical Attention", data["urgency"])
	assert.InDelta(t, 81.5, data["confidence"], 1e-9)
	assert.InDelta(t, 0.35, data["survival_prob"], 1e-9)
}

func TestAddRecord_MalformedNumbersUseDefaults(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)

	w := performRequest(env.Router, requestSpec{
		method: http.MethodPost,
		path:   "/add",
		cookie: cookie,
		form:   url.Values{"patient_id": {"P-7"}, "age": {"x"}, "duration": {"y"}, "survival": {"z"}},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var stored model.Patient
	require.NoError(t, env.DB.First(&stored).Error)
	assert.Equal(t, 45, stored.Age)
	assert.Equal(t, 3, stored.Duration)
	assert.Equal(t, 0.0, stored.SurvivalProb)
}

var formInputPattern = regexp.MustCompile(`<input name="([^"]+)"[^>]*\svalue="([^"]*)"`)

// renderedFormValues collects the name/value pairs of every prefilled input.
func renderedFormValues(body string) url.Values {
	values := url.Values{}
	for _, m := range formInputPattern.FindAllStringSubmatch(body, -1) {
		values.Set(m[1], html.UnescapeString(m[2]))
	}
	return values
}

func TestUpdateRecord_ResubmittedFormKeepsUntouchedFields(t *testing.T) {
	env := setupEndpointTest(t)
	cookie := loginAsAdmin(t, env)
	seed := samplePatient()
	seed.Confidence = 63.456
	seed.SurvivalProb = 0.4123
	original := seedPatient(t, env.DB, seed)
	editPath := fmt.Sprintf("/edit/%d", original.ID)

	w := performRequest(env.Router, requestSpec{method: http.MethodGet, path: editPath, cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code)

	form := renderedFormValues(w.Body.String())
	require.Equal(t, "63.456", form.Get("confidence"))
	for _, field := range editableFields {
		require.Contains(t, form, field)
	}
	form.Set("gender", "Male")

	w = performRequest(env.Router, requestSpec{method: http.MethodPost, path: editPath, cookie: cookie, form: form})
	require.Equal(t, http.StatusFound, w.Code)

	var updated model.Patient
	require.NoError(t, env.DB.First(&updated, original.ID).Error)
	assert.Equal(t, "Male", updated.Gender)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.PatientID, updated.PatientID)
	assert.Equal(t, original.Age, updated.Age)
	assert.Equal(t, original.Duration, updated.Duration)
	assert.Equal(t, original.Symptoms, updated.Symptoms)
	assert.Equal(t, original.CancerType, updated.CancerType)
	assert.Equal(t, original.Severity, updated.Severity)
	assert.Equal(t, original.Urgency, updated.Urgency)
	assert.Equal(t, original.Confidence, updated.Confidence)
	assert.Equal(t, original.SurvivalProb, updated.SurvivalProb)
}
