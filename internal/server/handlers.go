package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reiserwang/vericode/pkg/api"
	"github.com/reiserwang/vericode/pkg/vericode"
)

//go:embed index.html
var indexPage []byte

type handlers struct {
	svc      *api.Service
	validate *validator.Validate
}

func newHandlers(svc *api.Service) *handlers {
	return &handlers{
		svc:      svc,
		validate: validator.New(),
	}
}

// CodeOptions is the optional derivation configuration a request may carry.
// Pointer booleans distinguish "unset" from an explicit false: an unset flag
// takes its conventional default (digits on, letters off), matching the
// generation side.
type CodeOptions struct {
	Length       int    `json:"length" validate:"omitempty,min=1,max=64"`
	Period       int    `json:"period" validate:"omitempty,min=1"`
	UseDigits    *bool  `json:"use_digits"`
	UseUppercase *bool  `json:"use_uppercase"`
	UseLowercase *bool  `json:"use_lowercase"`
	Counter      *int64 `json:"counter"`
}

func (o CodeOptions) resolve() *vericode.Options {
	opts := vericode.Options{
		Period:  o.Period,
		Length:  o.Length,
		Digits:  true,
		Counter: o.Counter,
	}
	if o.UseDigits != nil {
		opts.Digits = *o.UseDigits
	}
	if o.UseUppercase != nil {
		opts.Uppercase = *o.UseUppercase
	}
	if o.UseLowercase != nil {
		opts.Lowercase = *o.UseLowercase
	}
	return &opts
}

type generateRequest struct {
	UserID string `json:"user_id" validate:"required"`
	CodeOptions
}

type validateRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Code   string `json:"code" validate:"required"`
	CodeOptions
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := parseJSONBody(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		msg := "invalid request"
		if strings.TrimSpace(req.UserID) == "" {
			msg = "User ID is required"
		}
		errorResponse(w, http.StatusBadRequest, msg)
		return
	}

	code, err := h.svc.Generate(r.Context(), api.GenerateRequest{
		Identifier: req.UserID,
		Options:    req.CodeOptions.resolve(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"code": code})
}

func (h *handlers) validateCode(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := parseJSONBody(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		msg := "invalid request"
		if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Code) == "" {
			msg = "User ID and Code are required"
		}
		errorResponse(w, http.StatusBadRequest, msg)
		return
	}

	valid, err := h.svc.Verify(r.Context(), api.VerifyRequest{
		Identifier: req.UserID,
		Code:       req.Code,
		Options:    req.CodeOptions.resolve(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"valid": valid})
}

// writeServiceError maps service errors to status codes: caller mistakes are
// 400s, anything else is a 500 with no detail leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrMissingIdentifier),
		errors.Is(err, api.ErrMissingCode),
		errors.Is(err, vericode.ErrInvalidConfig):
		errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
