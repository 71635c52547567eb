package endpoint

import (
	"net/http"
	"strings"

	"github.com/ariebrainware/onco-intake/assessment"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const recordsPath = "/records"

func fetchRecords(db *gorm.DB) ([]model.Patient, error) {
	var patients []model.Patient
	err := db.Order("id DESC").Find(&patients).Error
	return patients, err
}

// ListRecords renders every stored record, newest first.
func ListRecords(c *gin.Context) {
	db, ok := getDBOrRender(c)
	if !ok {
		return
	}

	patients, err := fetchRecords(db)
	if err != nil {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to retrieve records", Err: err})
		return
	}

	c.HTML(http.StatusOK, "records.html", gin.H{
		"data":     patients,
		"username": currentUser(c),
	})
}

// ShowEditRecord renders the edit form for one record.
func ShowEditRecord(c *gin.Context) {
	db, ok := getDBOrRender(c)
	if !ok {
		return
	}
	patient, ok := loadRecordOrRender(c, db)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "edit.html", gin.H{"record": patient})
}

// editableFields lists the form fields the edit form may change.
var editableFields = []string{
	"patient_id", "age", "gender", "duration", "symptoms",
	"cancer_type", "severity", "urgency", "confidence",
}

// buildRecordUpdates collects the submitted editable fields. Fields the client
// did not send are left out so their stored values stay untouched. Malformed
// numbers keep the current value.
func buildRecordUpdates(c *gin.Context, current model.Patient) map[string]interface{} {
	updates := make(map[string]interface{})
	for _, field := range editableFields {
		value, sent := c.GetPostForm(field)
		if !sent {
			continue
		}
		switch field {
		case "age":
			updates[field] = util.ParseIntDefault(value, current.Age)
		case "duration":
			updates[field] = util.ParseIntDefault(value, current.Duration)
		case "confidence":
			updates[field] = util.ParseFloatDefault(value, current.Confidence)
		case "symptoms":
			updates[field] = model.JoinSymptoms(model.SplitSymptoms(value))
		default:
			updates[field] = strings.TrimSpace(value)
		}
	}
	return updates
}

// UpdateRecord applies the submitted fields to one record and returns to the list.
func UpdateRecord(c *gin.Context) {
	db, ok := getDBOrRender(c)
	if !ok {
		return
	}
	patient, ok := loadRecordOrRender(c, db)
	if !ok {
		return
	}

	updates := buildRecordUpdates(c, patient)
	if len(updates) > 0 {
		if err := db.Model(&patient).Updates(updates).Error; err != nil {
			util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to update record", Err: err})
			return
		}
		util.LogRecordChanged(currentUser(c), c.ClientIP(), "update", patient.ID)
	}

	c.Redirect(http.StatusFound, recordsPath)
}

// DeleteRecord hard-deletes one record. Attachments stay in the upload directory.
func DeleteRecord(c *gin.Context) {
	db, ok := getDBOrRender(c)
	if !ok {
		return
	}
	id, ok := parseRecordID(c)
	if !ok {
		util.RenderNotFound(c, "Record not found")
		return
	}

	res := db.Delete(&model.Patient{}, id)
	if res.Error != nil {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to delete record", Err: res.Error})
		return
	}
	if res.RowsAffected > 0 {
		util.LogRecordChanged(currentUser(c), c.ClientIP(), "delete", id)
	}

	c.Redirect(http.StatusFound, recordsPath)
}

// ShowAddRecord renders the blank manual entry form.
func ShowAddRecord(c *gin.Context) {
	c.HTML(http.StatusOK, "edit.html", gin.H{})
}

// AddRecord inserts a manually entered record. Survival is entered as a percentage.
func AddRecord(c *gin.Context) {
	db, ok := getDBOrRender(c)
	if !ok {
		return
	}

	patient := model.Patient{
		PatientID:    strings.TrimSpace(c.PostForm("patient_id")),
		Age:          util.ParseIntDefault(c.PostForm("age"), assessment.DefaultAge),
		Gender:       strings.TrimSpace(c.PostForm("gender")),
		Duration:     util.ParseIntDefault(c.PostForm("duration"), assessment.DefaultDuration),
		Symptoms:     model.JoinSymptoms(model.SplitSymptoms(c.PostForm("symptoms"))),
		CancerType:   strings.TrimSpace(c.PostForm("cancer_type")),
		Severity:     strings.TrimSpace(c.PostForm("severity")),
		Urgency:      strings.TrimSpace(c.PostForm("urgency")),
		Confidence:   util.ParseFloatDefault(c.PostForm("confidence"), 0),
		SurvivalProb: util.ParseFloatDefault(c.PostForm("survival"), 0) / 100,
	}

	if err := db.Create(&patient).Error; err != nil {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to save record", Err: err})
		return
	}
	util.LogRecordChanged(currentUser(c), c.ClientIP(), "create", patient.ID)

	c.Redirect(http.StatusFound, recordsPath)
}
