package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// AuthController handles local signup, login and logout.
type AuthController struct {
	users *repository.UserRepository
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users *repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

type signupForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Password  string `form:"password" json:"password" binding:"required"`
	FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// SignupForm describes the signup fields.
func (a *AuthController) SignupForm(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"form": signupForm{}})
}

// Signup registers a local account and signs it in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var form signupForm
	if err := ctx.ShouldBind(&form); err != nil {
		form.Password = ""
		utils.FormInvalid(ctx, form, fieldErrors(err), nil)
		return
	}
	form.Username = strings.TrimSpace(form.Username)
	if err := utils.ValidateCredentials(form.Username, form.Password); err != nil {
		field := "password"
		if errors.Is(err, utils.ErrInvalidUsername) {
			field = "username"
		}
		form.Password = ""
		utils.FormInvalid(ctx, form, map[string]string{field: err.Error()}, nil)
		return
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}
	user := models.User{
		Username:     form.Username,
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		Email:        strings.TrimSpace(form.Email),
		PasswordHash: hash,
	}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			form.Password = ""
			utils.FormInvalid(ctx, form, map[string]string{"username": "A user with that username already exists."}, nil)
			return
		}
		failure(ctx, 50002, "failed to create user", err)
		return
	}
	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	a.signIn(ctx, &user, "")
}

// LoginForm describes the login fields and echoes ?next=.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"form": loginForm{Next: safeNext(ctx.Query("next"))}})
}

// Login verifies credentials and issues a JWT. A local next sends the client back with a redirect.
func (a *AuthController) Login(ctx *gin.Context) {
	var form loginForm
	if err := ctx.ShouldBind(&form); err != nil {
		form.Password = ""
		utils.FormInvalid(ctx, form, fieldErrors(err), nil)
		return
	}
	if form.Next == "" {
		form.Next = ctx.Query("next")
	}

	user, err := a.users.ByUsername(ctx.Request.Context(), strings.TrimSpace(form.Username))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		failure(ctx, 50003, "failed to load user", err)
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, form.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	a.signIn(ctx, user, safeNext(form.Next))
}

// Logout revokes the current token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token != "" {
		expiresAt := time.Now().Add(72 * time.Hour)
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		utils.RevokeToken(ctx.Request.Context(), token, expiresAt)
	}
	ctx.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

func (a *AuthController) signIn(ctx *gin.Context, user *models.User, next string) {
	token, expiresAt, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.TokenCookie, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)
	if next != "" {
		ctx.Redirect(http.StatusFound, next)
		return
	}
	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}
