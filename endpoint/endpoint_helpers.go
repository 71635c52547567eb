package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// getDBOrRender returns the request DB or renders the generic error page.
func getDBOrRender(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// getDBOrRespond is the JSON counterpart of getDBOrRender.
func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// parseRecordID reads the :id path parameter. Anything that is not a positive
// integer is reported as not found.
func parseRecordID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func loadRecord(db *gorm.DB, id uint) (model.Patient, error) {
	var patient model.Patient
	err := db.First(&patient, id).Error
	return patient, err
}

// loadRecordOrRender loads a patient row, rendering 404 or 500 on failure.
func loadRecordOrRender(c *gin.Context, db *gorm.DB) (model.Patient, bool) {
	id, ok := parseRecordID(c)
	if !ok {
		util.RenderNotFound(c, "Record not found")
		return model.Patient{}, false
	}
	patient, err := loadRecord(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.RenderNotFound(c, "Record not found")
		return model.Patient{}, false
	}
	if err != nil {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to load record", Err: err})
		return model.Patient{}, false
	}
	return patient, true
}

func renderTooLarge(c *gin.Context) {
	c.HTML(http.StatusRequestEntityTooLarge, "error.html", gin.H{
		"status": http.StatusRequestEntityTooLarge,
		"msg":    "Uploaded file is too large",
	})
}

func currentUser(c *gin.Context) string {
	username, _ := middleware.GetUsername(c)
	return username
}
