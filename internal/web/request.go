package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/justestif/go-books-proxy/internal/apperr"
	"github.com/justestif/go-books-proxy/internal/library"
)

const maxBodyBytes = 1 << 20

// requiredMessages are the error messages for missing required fields,
// keyed by JSON field name.
var requiredMessages = map[string]string{
	"book_id": "Book ID is required",
	"text":    "Note text is required",
	"name":    "Shelf name is required",
}

// requestValidator validates decoded request bodies.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	// Report JSON names so messages match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &requestValidator{v: v}
}

// Validate returns an apperr validation error for the first failing field.
func (rv *requestValidator) Validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	if strings.HasPrefix(fe.Tag(), "required") {
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return apperr.Validation(msg)
		}
		return apperr.Validation(fmt.Sprintf("Field '%s' is required", fe.Field()))
	}
	return apperr.Validation(fmt.Sprintf("Field '%s' is invalid", fe.Field()))
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}

// queryUser returns the caller's user id from the query string.
func queryUser(r *http.Request) string {
	return library.NormalizeUser(r.URL.Query().Get("user_id"))
}

// bodyUser prefers the body's user_id and falls back to the query string.
func bodyUser(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return queryUser(r)
}

// shelfParam parses the {shelfId} path parameter. Non-numeric ids cannot
// name an existing shelf.
func shelfParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "shelfId"))
	if err != nil {
		return 0, apperr.NotFound("Bookshelf not found")
	}
	return id, nil
}
