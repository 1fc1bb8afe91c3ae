package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/trading-competition/internal/auth"
	"github.com/atharvakonge/trading-competition/internal/store"
)

// StartingCash is the fixed balance every new account receives.
const StartingCash = 10000.0

func (s *Server) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flashes": takeFlashes(c)})
}

func (s *Server) register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		flash(c, "Username and password are required.")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.internalError(c, "HashPassword", err)
		return
	}

	_, err = s.Store.CreateUser(c.Request.Context(), username, hash, StartingCash)
	if errors.Is(err, store.ErrDuplicateUsername) {
		flash(c, "Username already taken.")
		c.Redirect(http.StatusFound, "/register")
		return
	}
	if err != nil {
		s.internalError(c, "CreateUser", err)
		return
	}

	flash(c, "Registration successful! Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Flashes": takeFlashes(c)})
}

func (s *Server) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := s.Store.UserByName(c.Request.Context(), username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Flashes": []string{"Invalid username or password."},
		})
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionUserKey, user.ID)
	sess.AddFlash("Logged in successfully.")
	if err := sess.Save(); err != nil {
		s.internalError(c, "session save", err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Delete(sessionUserKey)
	sess.AddFlash("Logged out.")
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/")
}
