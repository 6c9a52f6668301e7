package api

import (
	"errors"  // Error inspection
	"fmt"     // Message formatting
	"reflect" // Struct tag lookup
	"regexp"  // Username charset
	"strings" // Tag parsing
	"sync"    // One-time validator setup

	"feedback_board/internal/domain" // Error taxonomy

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Form binding
	"github.com/go-playground/validator/v10" // Field-level validation errors
)

// RegisterForm is the registration form
type RegisterForm struct {
	Username        string `form:"username" binding:"required,notblank,min=2,max=20,username"`
	Email           string `form:"email" binding:"required,notblank,max=50,email"`
	Password        string `form:"password" binding:"required,notblank"`
	ConfirmPassword string `form:"confirm_password" binding:"required,notblank,eqfield=Password"`
	FirstName       string `form:"first_name" binding:"required,notblank,max=30"`
	LastName        string `form:"last_name" binding:"required,notblank,max=30"`
}

func (f RegisterForm) values() map[string]string {
	return map[string]string{
		"username":   f.Username,
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
	}
}

// LoginForm is the login form
type LoginForm struct {
	Username string `form:"username" binding:"required,notblank"`
	Password string `form:"password" binding:"required,notblank"`
}

func (f LoginForm) values() map[string]string {
	return map[string]string{"username": f.Username}
}

// FeedbackForm is used to add and edit feedback
type FeedbackForm struct {
	Title   string `form:"title" binding:"required,notblank,max=100"`
	Content string `form:"content" binding:"required,notblank"`
}

func (f FeedbackForm) values() map[string]string {
	return map[string]string{"title": f.Title, "content": f.Content}
}

// Usernames end up in URL paths, so they stay within letters, digits, "_" and "-"
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

var validatorOnce sync.Once

// setupValidator makes validation errors report the form field name
// ("first_name") instead of the struct field name ("FirstName") and adds
// the notblank and username tags
func setupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// bindForm binds the POST body into form and converts failures into a
// *domain.ValidationError with one message per field
func bindForm(c *gin.Context, form any) *domain.ValidationError {
	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Fields: map[string]string{"form": "Malformed form submission."}}
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "email":
		return "Invalid email address."
	case "eqfield":
		return "Field must be equal to password."
	case "username":
		return "Username may only contain letters, digits, underscores and dashes."
	default:
		return "Invalid value."
	}
}
