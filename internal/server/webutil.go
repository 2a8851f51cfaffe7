package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"weekly-planner/internal/app"
	"weekly-planner/internal/planner"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks request decoding and validation failures.
var ErrInvalidInput = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as they appear in the JSON payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error string `json:"error"`
}

// RespondWithJSON writes a JSON response.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// HandleError maps an error to a status code and writes it as JSON.
func HandleError(w http.ResponseWriter, err error) {
	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		log.Printf("Unhandled error: %+v", err)
	}
	RespondWithJSON(w, code, errorResponse{Error: err.Error()})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrGenerationInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSONBody decodes and validates a request body.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrInvalidInput
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("Error decoding JSON body: %v", err)
		return ErrInvalidInput
	}

	// Validation only applies to struct payloads; list payloads are
	// checked by their handlers.
	v := reflect.Indirect(reflect.ValueOf(dst))
	if v.Kind() != reflect.Struct {
		return nil
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var fields []string
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return ErrInvalidInput
	}
	return nil
}
