package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/logger"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSONResponse sends a JSON response and ensures slices are never null.
// Frontends expect [] for empty collections, so nil slices are replaced before encoding.
func JSONResponse(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(normalizeSlices(data))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error","code":"internal"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	JSONResponse(w, code, payload)
}

func respondWithError(w http.ResponseWriter, code int, kind apperr.Kind, message string) {
	JSONResponse(w, code, ErrorResponse{Error: message, Code: string(kind)})
}

// respondWithAppError maps a service error onto its HTTP status. Internal
// errors are logged and surfaced with a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err, "unexpected error")
	}

	status := apperr.HTTPStatus(appErr.Kind)
	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		logger.FromContext(r.Context()).Error("Request failed", "error", err)
		message = "Internal server error"
	}

	JSONResponse(w, status, ErrorResponse{
		Error:  message,
		Code:   string(appErr.Kind),
		Fields: appErr.Fields,
	})
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := ErrMsgInvalidRequestBody
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		respondWithError(w, http.StatusBadRequest, apperr.KindValidation, msg)
		return false
	}
	return true
}

// pathID parses the {id} path value
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, apperr.KindValidation, fmt.Sprintf("Invalid id %q", r.PathValue("id")))
		return 0, false
	}
	return uint(id), true
}

// queryInt returns the integer query parameter name, or def when absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// queryIDs parses a comma separated list of ids, skipping malformed entries
func queryIDs(r *http.Request, name string) []uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

var timeType = reflect.TypeOf(time.Time{})

// normalizeSlices recursively replaces nil slices with empty ones
func normalizeSlices(data interface{}) interface{} {
	if data == nil {
		return nil
	}
	return normalizeValue(reflect.ValueOf(data)).Interface()
}

func normalizeValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() || v.Elem().Type() == timeType {
			return v
		}
		out := reflect.New(v.Elem().Type())
		out.Elem().Set(normalizeValue(v.Elem()))
		return out
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		if v.IsNil() {
			return reflect.MakeSlice(v.Type(), 0, 0)
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(normalizeValue(v.Index(i)))
		}
		return out
	case reflect.Struct:
		if v.Type() == timeType {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			out.Field(i).Set(normalizeValue(v.Field(i)))
		}
		return out
	default:
		return v
	}
}
