package endpoint

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ariebrainware/onco-intake/config"
	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid credentials"

// clientInfo identifies the caller in audit events.
type clientInfo struct {
	IP    string
	Agent string
}

func clientInfoFrom(c *gin.Context) clientInfo {
	return clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
}

func renderLogin(c *gin.Context, status int, username, msg string) {
	data := gin.H{"username": username}
	if msg != "" {
		data["error"] = msg
	}
	c.HTML(status, "login.html", data)
}

// ShowLogin renders the login form. An administrator who is already signed in
// still sees the form; logging in again replaces the session.
func ShowLogin(c *gin.Context) {
	renderLogin(c, http.StatusOK, "", "")
}

// RenderLoginRateLimited is the rate limiter's rejection for the login form.
func RenderLoginRateLimited(c *gin.Context) {
	renderLogin(c, http.StatusTooManyRequests, c.PostForm("username"), "Too many login attempts. Please try again later.")
}

// Login verifies the administrator credential and opens a session.
func Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	ci := clientInfoFrom(c)

	admin, ok := middleware.GetAdmin(c)
	if !ok {
		util.RenderServerError(c, util.APIErrorParams{Msg: "Authentication not configured", Err: fmt.Errorf("admin credential missing")})
		return
	}

	db, ok := getDBOrRender(c)
	if !ok {
		return
	}

	match, err := admin.Check(username, password)
	if err != nil {
		util.LogLoginFailure(util.ClientParams{Username: username, IP: ci.IP, UserAgent: ci.Agent, Reason: "password verification error"})
		util.RenderServerError(c, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return
	}
	if !match {
		util.LogLoginFailure(util.ClientParams{Username: username, IP: ci.IP, UserAgent: ci.Agent, Reason: "invalid credentials"})
		renderLogin(c, http.StatusUnauthorized, username, invalidCredentials)
		return
	}

	session, err := openSession(c, db, admin.Username, ci)
	if err != nil {
		util.LogLoginFailure(util.ClientParams{Username: username, IP: ci.IP, UserAgent: ci.Agent, Reason: "session creation failed"})
		util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	middleware.SetSessionCookie(c, session.SessionToken, session.ExpiresAt)
	util.LogLoginSuccess(util.ClientParams{Username: admin.Username, IP: ci.IP, UserAgent: ci.Agent})
	c.Redirect(http.StatusFound, recordsPath)
}

// openSession signs a token, records its sessions row and warms the cache.
func openSession(c *gin.Context, db *gorm.DB, username string, ci clientInfo) (model.Session, error) {
	expires := time.Now().Add(config.LoadConfig().SessionTTL)

	token, err := util.IssueSessionToken(username, expires)
	if err != nil {
		return model.Session{}, fmt.Errorf("issue token: %w", err)
	}

	session := model.Session{
		SessionToken: token,
		Username:     username,
		ExpiresAt:    expires,
		ClientIP:     ci.IP,
		Browser:      ci.Agent,
	}
	if err := db.Create(&session).Error; err != nil {
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}

	if err := util.CacheSession(c.Request.Context(), token, username, time.Until(expires)); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			Username:  username,
			IP:        ci.IP,
			Message:   fmt.Sprintf("Failed to cache session: %v", err),
		})
	}
	return session, nil
}

// Logout ends the current session, if any, and returns to the login form.
func Logout(c *gin.Context) {
	ci := clientInfoFrom(c)
	token, err := c.Cookie(middleware.SessionCookie)
	if err != nil || token == "" {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	username := ""
	if db := middleware.GetDB(c); db != nil {
		var session model.Session
		if err := db.Where("session_token = ?", token).First(&session).Error; err == nil {
			username = session.Username
			if err := db.Delete(&session).Error; err != nil {
				util.RenderServerError(c, util.APIErrorParams{Msg: "Failed to end session", Err: err})
				return
			}
		}
	}
	_ = util.EvictSession(c.Request.Context(), token)

	middleware.ClearSessionCookie(c)
	if username != "" {
		util.LogLogout(util.ClientParams{Username: username, IP: ci.IP, UserAgent: ci.Agent})
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
