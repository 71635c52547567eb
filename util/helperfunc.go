package util

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data"`
}

type APIErrorParams struct {
	Msg string
	Err error
}

type APISuccessParams struct {
	Msg  string
	Data interface{}
}

// Contains function is to check item whether is exist or not in a list and will return bool
func Contains(d string, dl []string) bool {
	for _, v := range dl {
		if v == d {
			return true
		}
	}
	return false
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	response := APIResponse{
		Success: false,
		Error:   params.Err.Error(),
		Msg:     params.Msg,
		Data:    map[string]interface{}{},
	}
	c.JSON(http.StatusNotFound, response)
}

// CallUserError is for return error from user side
func CallUserError(c *gin.Context, params APIErrorParams) {
	response := APIResponse{
		Success: false,
		Error:   params.Err.Error(),
		Msg:     params.Msg,
		Data:    map[string]interface{}{},
	}
	c.JSON(http.StatusBadRequest, response)
}

// CallServerError is for return API response server error
func CallServerError(c *gin.Context, params APIErrorParams) {
	response := APIResponse{
		Success: false,
		Error:   params.Err.Error(),
		Msg:     params.Msg,
		Data:    map[string]interface{}{},
	}
	c.JSON(http.StatusInternalServerError, response)
}

// CallSuccessOK is for return API response with status code 200, you need to specify msg, and data as function parameter
func CallSuccessOK(c *gin.Context, params APISuccessParams) {
	response := APIResponse{
		Success: true,
		Error:   "",
		Msg:     params.Msg,
		Data:    params.Data,
	}
	c.JSON(http.StatusOK, response)
}

// RenderServerError renders the generic error page with status 500.
// The underlying error is recorded on the gin context for the request logger, never shown.
func RenderServerError(c *gin.Context, params APIErrorParams) {
	if params.Err != nil {
		_ = c.Error(params.Err)
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"status": http.StatusInternalServerError,
		"msg":    params.Msg,
	})
}

// RenderNotFound renders the generic error page with status 404.
func RenderNotFound(c *gin.Context, msg string) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"status": http.StatusNotFound,
		"msg":    msg,
	})
}

// ParseIntDefault parses a form value, returning def when it is missing or malformed.
func ParseIntDefault(value string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return v
}

// ParseFloatDefault parses a form value, returning def when it is missing or malformed.
func ParseFloatDefault(value string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return def
	}
	return v
}

// NormalizeName normalizes a name by trimming leading/trailing whitespace
// and collapsing multiple internal spaces into single spaces.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.Join(strings.Fields(name), " ")
}
