package controllers

import (
	"context"
	"errors"
	"foodievent/src/models"
	"foodievent/src/repository"
	"foodievent/src/types"
	"foodievent/src/utils"
	"foodievent/src/validation"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	ErrUnknownEmail  = errors.New("incorrect email")
	ErrWrongPassword = errors.New("incorrect password")
)

// TokenRevoker records a logged out token id until it would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthController struct {
	Users      repository.UserRepository
	Validator  *validation.Validator
	Revoker    TokenRevoker
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// Register accepts JSON or form bodies.
func (a *AuthController) Register(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	reg := validation.NormalizeRegistration(validation.Registration{
		FirstName: body.FirstName,
		Surname:   body.Surname,
		Email:     body.Email,
		Phone:     body.Phone,
		Address:   body.Address,
		Password:  body.Password,
		Confirm:   body.ConfirmPassword,
	})
	errs, err := a.Validator.ValidateRegistration(ctx.Request.Context(), reg)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if len(errs) > 0 {
		return nil, http.StatusBadRequest, errs
	}

	hash, err := utils.HashPassword(reg.Password, a.BcryptCost)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	user = &models.User{
		FirstName:    reg.FirstName,
		Surname:      reg.Surname,
		Email:        reg.Email,
		Phone:        reg.Phone,
		Address:      reg.Address,
		PasswordHash: hash,
	}
	if err := a.Users.CreateUser(ctx.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, http.StatusBadRequest, validation.FieldErrors{"email": validation.MsgEmailTaken}
		}
		return nil, http.StatusInternalServerError, err
	}
	log.Printf("[AuthRegister] created user %d\n", user.ID)
	return user, http.StatusCreated, nil
}

func (a *AuthController) Login(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBind(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err := a.Users.GetUserByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(body.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, http.StatusUnauthorized, ErrUnknownEmail
		}
		return nil, http.StatusInternalServerError, err
	}
	if !utils.CheckPasswordHash(body.Password, user.PasswordHash) {
		return nil, http.StatusUnauthorized, ErrWrongPassword
	}
	signed, err := utils.GenerateJWT(a.Secret, user.Email, user.ID, a.TokenTTL)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusOK, nil
}

// Logout revokes the token that authenticated the request.
func (a *AuthController) Logout(ctx *gin.Context) (status int, err error) {
	jti := ctx.GetString("jti")
	if jti == "" {
		return http.StatusUnauthorized, errors.New("missing token id")
	}
	if a.Revoker == nil {
		log.Println("[AuthLogout] no revocation store configured, token stays valid until expiry")
		return http.StatusOK, nil
	}
	ttl := a.TokenTTL
	if exp, ok := ctx.Get("exp"); ok {
		if t, ok := exp.(time.Time); ok {
			ttl = time.Until(t)
		}
	}
	if err := a.Revoker.Revoke(ctx.Request.Context(), jti, ttl); err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}
