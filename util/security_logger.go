package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ariebrainware/onco-intake/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventLogout             SecurityEventType = "LOGOUT"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity SecurityEventType = "SUSPICIOUS_ACTIVITY"
	EventRecordChanged      SecurityEventType = "RECORD_CHANGED"
	EventEndpointCall       SecurityEventType = "ENDPOINT_CALL"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	Username  string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var securityLogger *log.Logger
var securityDB *gorm.DB

// SetSecurityLoggerDB sets a gorm DB instance used by the security logger.
// Call this during application startup (e.g. in main) after DB initialization.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityDB = db
}

func init() {
	securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogSecurityEvent logs a security event
func LogSecurityEvent(event SecurityEvent) {
	msg := fmt.Sprintf("Event=%s Username=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.Username),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)

	if len(event.Details) > 0 {
		// Details are persisted, not printed.
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	securityLogger.Println(msg)

	if securityDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	entry := model.SecurityLog{
		EventType: string(event.EventType),
		Username:  sanitizeLogValue(event.Username),
		IP:        sanitizeLogValue(event.IP),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}

	// best-effort write
	if err := securityDB.Create(&entry).Error; err != nil {
		securityLogger.Printf("Failed to persist security event: %v", err)
	}
}

// ClientParams identifies who triggered an event.
type ClientParams struct {
	Username  string
	IP        string
	UserAgent string
	Reason    string
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(p ClientParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		Username:  p.Username,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   "Administrator logged in successfully",
		Details:   locationDetails(p.IP),
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(p ClientParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Username:  p.Username,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   fmt.Sprintf("Login failed: %s", p.Reason),
		Details:   locationDetails(p.IP),
	})
}

// locationDetails returns the GeoIP location of ip as event details, or nil.
func locationDetails(ip string) map[string]interface{} {
	loc := GetIPLocation(ip)
	if loc.Empty() {
		return nil
	}
	return map[string]interface{}{"city": loc.City, "country": loc.Country}
}

// LogLogout logs a logout event
func LogLogout(p ClientParams) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		Username:  p.Username,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		Message:   "Administrator logged out",
	})
}

// LogUnauthorizedAccess logs unauthorized access attempts
func LogUnauthorizedAccess(ip, resource, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventUnauthorizedAccess,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(ip, endpoint string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}

// LogRecordChanged logs an edit, manual insert or delete of a patient record.
func LogRecordChanged(username, ip, action string, recordID uint) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRecordChanged,
		Username:  username,
		IP:        ip,
		Message:   fmt.Sprintf("Patient record %d: %s", recordID, action),
		Details:   map[string]interface{}{"record_id": recordID, "action": action},
	})
}

// GetSecurityLoggerForTest returns the current security logger for testing purposes
func GetSecurityLoggerForTest() *log.Logger {
	return securityLogger
}

// SetSecurityLoggerForTest sets a custom logger for testing purposes
func SetSecurityLoggerForTest(logger *log.Logger) {
	securityLogger = logger
}
