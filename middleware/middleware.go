package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DBKey       = "db"
	UploadsKey  = "uploads"
	AdminKey    = "admin"
	LoggedInKey = "logged_in"
	UsernameKey = "username"

	// SessionCookie carries the signed session token.
	SessionCookie = "session-token"
	LoginPath     = "/login"
)

// CORSMiddleware configures CORS headers for the JSON API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c)

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func setCorsHeaders(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type")
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")
}

// DatabaseMiddleware makes db available to handlers through GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

// GetDB returns the request's database handle, or nil when none was injected.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(DBKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	if db == nil {
		return nil
	}
	return db.WithContext(c.Request.Context())
}

// ServiceMiddleware injects the upload store and the administrator credential.
func ServiceMiddleware(uploads *util.UploadStore, admin util.AdminCredential) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UploadsKey, uploads)
		c.Set(AdminKey, admin)
		c.Next()
	}
}

// GetUploads returns the injected upload store, or nil.
func GetUploads(c *gin.Context) *util.UploadStore {
	v, _ := c.Get(UploadsKey)
	s, _ := v.(*util.UploadStore)
	return s
}

// GetAdmin returns the injected administrator credential.
func GetAdmin(c *gin.Context) (util.AdminCredential, bool) {
	v, ok := c.Get(AdminKey)
	if !ok {
		return util.AdminCredential{}, false
	}
	admin, ok := v.(util.AdminCredential)
	return admin, ok
}

// GetUsername returns the logged-in administrator set by RequireLogin.
func GetUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(UsernameKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// RequireLogin guards routes behind an administrator session. Requests without
// a valid session are redirected to the login page and the guarded handler never runs.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			denyAccess(c, "missing session")
			return
		}

		username, ok := resolveSession(c, token)
		if !ok {
			return
		}

		c.Set(LoggedInKey, true)
		c.Set(UsernameKey, username)
		c.Next()
	}
}

// resolveSession checks the Redis cache first and falls back to the signed
// token plus its sessions row. It writes the response itself when it fails.
func resolveSession(c *gin.Context, token string) (string, bool) {
	ctx := c.Request.Context()

	username, found, err := util.CachedSession(ctx, token)
	if err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			IP:        c.ClientIP(),
			Message:   fmt.Sprintf("Session cache lookup failed: %v", err),
		})
	}
	if found {
		return username, true
	}

	claims, err := util.ParseSessionToken(token)
	if err != nil {
		denyAccess(c, "invalid session token")
		return "", false
	}

	db := GetDB(c)
	if db == nil {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		c.Abort()
		return "", false
	}

	var session model.Session
	err = db.Where("session_token = ?", token).First(&session).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to load session", Err: err})
			c.Abort()
			return "", false
		}
		denyAccess(c, "session not found")
		return "", false
	}
	if session.Expired(time.Now()) {
		denyAccess(c, "session expired")
		return "", false
	}
	if session.Username != claims.Subject {
		denyAccess(c, "session subject mismatch")
		return "", false
	}

	_ = util.CacheSession(ctx, token, session.Username, time.Until(session.ExpiresAt))
	return session.Username, true
}

func denyAccess(c *gin.Context, reason string) {
	util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, reason)
	if _, err := c.Cookie(SessionCookie); err == nil {
		ClearSessionCookie(c)
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// SetSessionCookie stores token in an HTTP-only cookie until expires.
func SetSessionCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", isSecure(c), true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", isSecure(c), true)
}

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
