package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"meeting-management-api/internal/auth"
	"meeting-management-api/internal/metrics"
	"meeting-management-api/internal/model"
	"meeting-management-api/internal/store"
)

// Register handles POST /auth/register (multipart). The created user is
// returned without the password hash.
func (h *Handler) Register(c *gin.Context) {
	firstName := c.PostForm("firstName")
	lastName := c.PostForm("lastName")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	password := c.PostForm("password")

	if firstName == "" || lastName == "" || email == "" || phone == "" || password == "" {
		respondError(c, http.StatusBadRequest, "all fields are required", nil)
		return
	}

	profileImage := ""
	if fh, err := c.FormFile("profileImage"); err == nil {
		name, err := h.uploads.Save(fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "could not store profile image", err)
			return
		}
		profileImage = name
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "registration failed", err)
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		ProfileImage: profileImage,
	}

	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, "email already registered", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "registration failed", err)
		return
	}

	subject, body := h.notifier.Welcome(u.FirstName, u.LastName)
	if err := h.mailer.Send(c.Request.Context(), u.Email, subject, body); err != nil {
		metrics.RecordNotification("welcome", "failed")
		respondError(c, http.StatusInternalServerError, "welcome mail failed", err)
		return
	}
	metrics.RecordNotification("welcome", "sent")

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user": u})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login (json) and issues a signed bearer token.
// Unknown email and bad password fail distinctly.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "email and password are required", err)
		return
	}

	u, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed", err)
		return
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		respondError(c, http.StatusBadRequest, "invalid password", nil)
		return
	}

	token, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}
