package inbound

import (
	"github.com/shandysiswandi/authenticator/internal/authenticator/usecase"
	"github.com/shandysiswandi/authenticator/internal/pkg/router"
)

// HTTPEndpoint exposes the widget operations as JSON handlers.
type HTTPEndpoint struct {
	uc uc
}

// Status reports whether the session already holds a secret.
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	resp, err := h.uc.Load(r.Context())
	if err != nil {
		return nil, err
	}

	return StatusResponse{HasSecret: resp.HasSecret}, nil
}

// Setup enrolls a new secret and returns its QR code.
func (h *HTTPEndpoint) Setup(r *router.Request) (any, error) {
	resp, err := h.uc.Setup(r.Context())
	if err != nil {
		return nil, err
	}

	return SetupResponse{
		HasSecret: resp.HasSecret,
		QR:        resp.QR,
		URI:       resp.URI,
	}, nil
}

// Verify checks a code. Every outcome, including no_secret and invalid,
// is a 200 response; the outcome field tells them apart.
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{
		Outcome: resp.Outcome.String(),
		Delta:   resp.Delta,
		message: resp.Outcome.Message(),
	}, nil
}
