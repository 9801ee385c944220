package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/middleware"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// requireRestaurant returns the active restaurant or writes a 400 and returns false
func requireRestaurant(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetRestaurantID(c)
	if id == uuid.Nil {
		response.BadRequest(c, "Restaurant context required")
		return uuid.Nil, false
	}
	return id, true
}

// GetStaffName extracts the staff display name from the Gin context
func GetStaffName(c *gin.Context) string {
	return c.GetString(middleware.StaffNameKey)
}

// bindFailed answers a request that did not bind. Broken binding rules are a
// 422 listing each field; unreadable input is a 400.
func bindFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   snakeCase(fe.Field()),
			Message: ruleMessage(fe),
		})
	}
	response.ValidationError(c, fields)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

// snakeCase maps a Go field name to its JSON name, e.g. AmountGiven to amount_given.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
