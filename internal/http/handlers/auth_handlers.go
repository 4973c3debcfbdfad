package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/auth"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/middleware"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/session"
)

// readCredentials accepts a JSON body or a classic form post.
func readCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, error) {
	var creds CredentialsRequest
	if isJSON(r) {
		if err := readJSON(w, r, &creds); err != nil {
			return creds, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return creds, err
		}
		creds = CredentialsRequest{
			Username:        r.PostForm.Get("username"),
			Password:        r.PostForm.Get("password"),
			ConfirmPassword: r.PostForm.Get("confirm_password"),
		}
	}
	creds.Username = strings.TrimSpace(creds.Username)
	return creds, nil
}

// RegisterHandler godoc
// @Summary Register a new user account
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body CredentialsRequest true "username, password and confirm_password"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ValidationErrors
// @Failure 409 {object} ErrorResponse "User exists"
// @Router /register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(w, r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid input")
		return
	}

	if errs := validateRegistration(creds); len(errs) > 0 {
		respond(w, http.StatusBadRequest, ValidationErrors{Errors: errs})
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		log.Printf("failed to hash password: %v", err)
		errorJSON(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	_, err = s.Users.CreateUser(r.Context(), models.User{
		Username:     creds.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			errorJSON(w, http.StatusConflict, "username already exists")
			return
		}
		log.Printf("failed to register user %q: %v", creds.Username, err)
		errorJSON(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	respond(w, http.StatusCreated, MessageResponse{Message: "registration successful, please log in", Redirect: "/login"})
}

// LoginHandler godoc
// @Summary Start a session and return a JWT access token
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 429 {string} string "Too many requests"
// @Router /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(w, r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid input")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		errorJSON(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := auth.Authenticate(r.Context(), s.Users, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			errorJSON(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("login lookup failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not log in")
		return
	}

	token := session.NewToken()
	err = s.Sessions.Set(r.Context(), token, session.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: s.now(),
	})
	if err != nil {
		log.Printf("could not store session for %q: %v", user.Username, err)
		errorJSON(w, http.StatusInternalServerError, "could not start session")
		return
	}

	accessToken, err := s.Tokens.GenerateToken(user)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "could not generate token")
		return
	}

	expires := s.now().Add(s.SessionTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(s.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	res := LoginResult{
		Message:   "welcome, " + user.Username,
		Token:     accessToken,
		ExpiresAt: expires,
		Role:      user.Role,
		Redirect:  "/dashboard",
	}
	if user.IsAdmin() {
		res.Message = "admin login successful"
		res.Redirect = "/admin"
	}
	respond(w, http.StatusOK, res)
}

// LogoutHandler godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := s.Sessions.Clear(r.Context(), cookie.Value); err != nil {
			log.Printf("could not clear session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	respond(w, http.StatusOK, MessageResponse{Message: "logged out", Redirect: "/"})
}
