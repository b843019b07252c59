package handler

import (
    "errors"
    "net/http"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo.Validator.  Field
// names in reported errors use the JSON tag so clients see the names they
// sent.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
    return cv.v.Struct(i)
}

// fieldError is one entry of the "errors" array in a 400 response.
type fieldError struct {
    Field string `json:"field"`
    Rule  string `json:"rule"`
    Param string `json:"param,omitempty"`
}

func fieldErrors(err error) []fieldError {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return nil
    }
    out := make([]fieldError, 0, len(verrs))
    for _, fe := range verrs {
        out = append(out, fieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
    }
    return out
}

// bindValid binds the JSON body into req and validates it.  On failure it
// writes the 400 response itself and returns false.
func bindValid(c echo.Context, req interface{}, msg string) (bool, error) {
    if err := c.Bind(req); err != nil {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
    }
    if err := c.Validate(req); err != nil {
        body := echo.Map{"message": msg}
        if fe := fieldErrors(err); len(fe) > 0 {
            body["errors"] = fe
        }
        return false, c.JSON(http.StatusBadRequest, body)
    }
    return true, nil
}
