package endpoint

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ariebrainware/onco-intake/assessment"
	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
)

const (
	defaultPatientName = "Unknown"
	defaultGender      = "Not specified"
)

// intakeForm is the parsed public intake form.
type intakeForm struct {
	Name     string
	Age      int
	Gender   string
	Duration int
	Symptoms []string
}

func parseIntakeForm(c *gin.Context) intakeForm {
	name := util.NormalizeName(c.PostForm("name"))
	if name == "" {
		name = defaultPatientName
	}
	gender := c.PostForm("gender")
	if gender == "" {
		gender = defaultGender
	}
	return intakeForm{
		Name:     name,
		Age:      util.ParseIntDefault(c.PostForm("age"), assessment.DefaultAge),
		Gender:   gender,
		Duration: util.ParseIntDefault(c.PostForm("duration"), assessment.DefaultDuration),
		Symptoms: uniqueSymptoms(c.PostFormArray("symptoms")),
	}
}

// uniqueSymptoms drops blanks and repeats, keeping the first occurrence.
func uniqueSymptoms(selected []string) []string {
	result := make([]string, 0, len(selected))
	for _, s := range selected {
		s = strings.TrimSpace(s)
		if s == "" || util.Contains(s, result) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// storedUpload is one saved attachment.
type storedUpload struct {
	Name string
	Data []byte
}

// saveOptionalUpload stores the multipart field if the client sent a file.
// A missing or empty field is not an error.
func saveOptionalUpload(c *gin.Context, field string) (storedUpload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return storedUpload{}, nil
	}
	if err != nil {
		return storedUpload{}, err
	}
	if fh.Filename == "" {
		return storedUpload{}, nil
	}
	return saveUpload(c, fh)
}

func saveUpload(c *gin.Context, fh *multipart.FileHeader) (storedUpload, error) {
	store := middleware.GetUploads(c)
	if store == nil {
		return storedUpload{}, errors.New("upload store not available")
	}
	name, data, err := store.Save(fh)
	if err != nil {
		return storedUpload{}, err
	}
	return storedUpload{Name: name, Data: data}, nil
}

// uploadsOrRender saves every named field, rendering an error page on failure.
// Files saved before the failure are removed again.
func uploadsOrRender(c *gin.Context, fields ...string) (map[string]storedUpload, bool) {
	saved := make(map[string]storedUpload, len(fields))
	for _, field := range fields {
		up, err := saveOptionalUpload(c, field)
		if err != nil {
			discardUploads(c, saved)
			if errors.Is(err, util.ErrUploadTooLarge) {
				renderTooLarge(c)
			} else {
				util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to store upload", Err: err})
			}
			return nil, false
		}
		saved[field] = up
	}
	return saved, true
}

// discardUploads deletes files that no record will reference.
func discardUploads(c *gin.Context, saved map[string]storedUpload) {
	store := middleware.GetUploads(c)
	if store == nil {
		return
	}
	for _, up := range saved {
		if up.Name == "" {
			continue
		}
		if err := store.Remove(up.Name); err != nil {
			_ = c.Error(err)
		}
	}
}

func newPatientRecord(form intakeForm, result assessment.Result) model.Patient {
	return model.Patient{
		PatientID:    form.Name,
		Age:          form.Age,
		Gender:       form.Gender,
		Duration:     form.Duration,
		Symptoms:     model.JoinSymptoms(form.Symptoms),
		CancerType:   result.CancerType,
		Severity:     result.Severity,
		Urgency:      result.Urgency,
		Confidence:   result.Confidence,
		SurvivalProb: result.SurvivalProb,
	}
}

func resultView(form intakeForm, result assessment.Result, recordID uint) gin.H {
	return gin.H{
		"name":        form.Name,
		"age":         form.Age,
		"gender":      form.Gender,
		"cancer_type": result.CancerType,
		"severity":    result.Severity,
		"urgency":     result.Urgency,
		"color":       result.Color,
		"diagnosis":   result.Diagnosis,
		"prognosis":   result.Prognosis,
		"confidence":  result.Confidence,
		"survival":    result.SurvivalProb,
		"record_id":   recordID,
	}
}

func renderIntake(c *gin.Context, status int, selected []string, result gin.H) {
	data := gin.H{"symptoms": assessment.AllSymptoms(), "selected": selected}
	if result != nil {
		data["result"] = result
	}
	c.HTML(status, "index.html", data)
}

// ShowIntakeForm renders the blank intake form.
func ShowIntakeForm(c *gin.Context) {
	renderIntake(c, http.StatusOK, nil, nil)
}

// SubmitIntake scores the intake form, stores the optional scan and the
// record, then renders the result below the form.
func SubmitIntake(c *gin.Context) {
	processIntake(c, "scan")
}

// SubmitIntakeWithFiles is the intake variant accepting lab and history
// documents next to the scan. Only the scan takes part in scoring.
func SubmitIntakeWithFiles(c *gin.Context) {
	processIntake(c, "scan", "lab", "history")
}

func processIntake(c *gin.Context, fileFields ...string) {
	db, ok := getDBOrRender(c)
	if !ok {
		return
	}

	form := parseIntakeForm(c)
	uploads, ok := uploadsOrRender(c, fileFields...)
	if !ok {
		return
	}

	scan := uploads["scan"]
	result := assessment.Assess(assessment.Input{
		Age:      form.Age,
		Duration: form.Duration,
		Symptoms: form.Symptoms,
		Image:    scan.Data,
	})

	patient := newPatientRecord(form, result)
	patient.ScanFile = scan.Name
	patient.LabFile = uploads["lab"].Name
	patient.HistoryFile = uploads["history"].Name

	if err := db.Create(&patient).Error; err != nil {
		discardUploads(c, uploads)
		util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to save record", Err: err})
		return
	}

	renderIntake(c, http.StatusOK, form.Symptoms, resultView(form, result, patient.ID))
}
