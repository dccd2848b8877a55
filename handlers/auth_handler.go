package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/ranked-hc/auth"
	"github.com/Dosada05/ranked-hc/middleware"
)

// AdminGate содержит операции входа, которые нужны обработчику.
type AdminGate interface {
	Login(sess *auth.Session, flags auth.FlagStore, candidate string) error
	Logout(sess *auth.Session, flags auth.FlagStore)
	RequestCode(ctx context.Context, sess *auth.Session, address string) error
	VerifyCode(sess *auth.Session, flags auth.FlagStore, code string) error
	OTPEnabled() bool
}

type AuthHandler struct {
	gate AdminGate
}

func NewAuthHandler(gate AdminGate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

type loginRequest struct {
	Secret string `json:"secret"`
}

type otpRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Code string `json:"code"`
}

type statusResponse struct {
	State      string `json:"state" example:"LoggedIn"`
	OTPEnabled bool   `json:"otp_enabled"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Admin login with the shared secret
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "secret"
// @Success 200 {object} statusResponse
// @Failure 401 {object} errorEnvelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Secret == "" {
		badRequestResponse(w, r, errors.New("secret is required"))
		return
	}

	sess, flags := sessionFromRequest(r)
	if err := h.gate.Login(sess, flags, input.Secret); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeStatus(w, r, sess)
}

// RequestCode godoc
// @Summary Mail a one-time passcode to an allow-listed admin address
// @Tags auth
// @Accept json
// @Produce json
// @Param input body otpRequest true "email"
// @Success 202 {object} messageResponse
// @Failure 403 {object} errorEnvelope
// @Failure 502 {object} errorEnvelope
// @Router /auth/otp [post]
func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var input otpRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Email) == "" {
		badRequestResponse(w, r, errors.New("email is required"))
		return
	}

	sess, _ := sessionFromRequest(r)
	if err := h.gate.RequestCode(r.Context(), sess, input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusAccepted, messageResponse{Message: "passcode sent"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// VerifyCode godoc
// @Summary Complete passcode login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body otpVerifyRequest true "code"
// @Success 200 {object} statusResponse
// @Failure 401 {object} errorEnvelope
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var input otpVerifyRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, flags := sessionFromRequest(r)
	if err := h.gate.VerifyCode(sess, flags, input.Code); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeStatus(w, r, sess)
}

// Logout godoc
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} statusResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, flags := sessionFromRequest(r)
	h.gate.Logout(sess, flags)
	h.writeStatus(w, r, sess)
}

// Status godoc
// @Summary Current admin state
// @Tags auth
// @Produce json
// @Success 200 {object} statusResponse
// @Router /auth/status [get]
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromRequest(r)
	h.writeStatus(w, r, sess)
}

func (h *AuthHandler) writeStatus(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	response := statusResponse{
		State:      sess.State().String(),
		OTPEnabled: h.gate.OTPEnabled(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// sessionFromRequest never returns nil values; a request that bypassed the
// Session middleware gets a throwaway logged-out session.
func sessionFromRequest(r *http.Request) (*auth.Session, auth.FlagStore) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		sess = auth.NewSession("")
	}
	flags := middleware.FlagsFromContext(r.Context())
	if flags == nil {
		flags = discardFlags{}
	}
	return sess, flags
}

type discardFlags struct{}

func (discardFlags) GetFlag(string) (string, bool) { return "", false }
func (discardFlags) SetFlag(string, string)        {}
func (discardFlags) ClearFlag(string)              {}
