package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"hunstagram/internal/apperr"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Fail writes the JSON error body for any error coming out of a service.
func Fail(c *gin.Context, err error) {
	status, body := apperr.ResponseFor(err)
	c.JSON(status, body)
}

// bindJSON binds and validates, turning the first field-level validation
// failure into an INVALID_INPUT with a readable message.
func bindJSON(c *gin.Context, obj interface{}) error {
	return invalidInput(c.ShouldBindJSON(obj))
}

// bindForm does the same for multipart/urlencoded forms.
func bindForm(c *gin.Context, obj interface{}) error {
	return invalidInput(c.ShouldBind(obj))
}

func invalidInput(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return apperr.WithMessage(apperr.InvalidInput,
			fmt.Sprintf("field %s failed on %s validation", e.Field(), e.Tag()))
	}
	return apperr.Wrap(apperr.InvalidInput, err)
}

// uintParam parses a numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.WithMessage(apperr.InvalidInput, fmt.Sprintf("invalid %s", name))
	}
	return uint(value), nil
}

// intQuery parses an optional numeric query parameter with a default.
func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// readUpload pulls one multipart file into memory for the blob store.
func readUpload(header *multipart.FileHeader) (*services.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, err)
	}
	return &services.ImageUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
