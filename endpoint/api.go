package endpoint

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/onco-intake/assessment"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogResponse is the payload of GET /api/catalog.
type CatalogResponse struct {
	CancerTypes []assessment.CancerType `json:"cancer_types"`
	Symptoms    []string                `json:"symptoms"`
}

// GetCatalog godoc
// @Summary      Symptom catalog
// @Description  List the cancer types with their weighted symptoms and the sorted symptom vocabulary
// @Tags         Assessment
// @Produce      json
// @Success      200 {object} util.APIResponse{data=CatalogResponse} "Catalog retrieved"
// @Router       /api/catalog [get]
func GetCatalog(c *gin.Context) {
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Catalog retrieved",
		Data: CatalogResponse{
			CancerTypes: assessment.Catalog(),
			Symptoms:    assessment.AllSymptoms(),
		},
	})
}

// AssessRequest is the body of POST /api/assess. Missing age or duration
// fall back to the intake defaults.
type AssessRequest struct {
	Age      *int     `json:"age" example:"65"`
	Duration *int     `json:"duration" example:"8"`
	Symptoms []string `json:"symptoms" example:"Persistent cough,Wheezing"`
}

// Assess godoc
// @Summary      Score an intake
// @Description  Run the symptom scoring without storing anything
// @Tags         Assessment
// @Accept       json
// @Produce      json
// @Param        request body AssessRequest true "Intake"
// @Success      200 {object} util.APIResponse{data=assessment.Result} "Assessment completed"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Router       /api/assess [post]
func Assess(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request payload", Err: err})
		return
	}

	in := assessment.Input{
		Age:      assessment.DefaultAge,
		Duration: assessment.DefaultDuration,
		Symptoms: uniqueSymptoms(req.Symptoms),
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	if req.Duration != nil {
		in.Duration = *req.Duration
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Assessment completed",
		Data: assessment.Assess(in),
	})
}

// ListRecordsAPI godoc
// @Summary      List records
// @Description  List every stored intake record, newest first
// @Tags         Records
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=object} "Records retrieved"
// @Failure      302 "Redirect to /login without a session"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/records [get]
func ListRecordsAPI(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patients, err := fetchRecords(db)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve records", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Records retrieved",
		Data: map[string]interface{}{"total": len(patients), "records": patients},
	})
}

// GetRecordAPI godoc
// @Summary      Get record
// @Description  Fetch one intake record by id
// @Tags         Records
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Record ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Record retrieved"
// @Failure      302 "Redirect to /login without a session"
// @Failure      404 {object} util.APIResponse "Record not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/records/{id} [get]
func GetRecordAPI(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	id, ok := parseRecordID(c)
	if !ok {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Record not found", Err: fmt.Errorf("invalid id %q", c.Param("id"))})
		return
	}

	patient, err := loadRecord(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Record not found", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load record", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Record retrieved", Data: patient})
}
