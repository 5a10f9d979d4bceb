package inbound

import (
	"context"

	"github.com/shandysiswandi/authenticator/internal/authenticator/usecase"
	"github.com/shandysiswandi/authenticator/internal/pkg/router"
)

type uc interface {
	Load(ctx context.Context) (*usecase.LoadOutput, error)
	Setup(ctx context.Context) (*usecase.SetupOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Widget page
	r.GETRaw("/", newPage(uc))

	// Widget API
	r.GET("/api/v1/authenticator", end.Status)
	r.POST("/api/v1/authenticator/setup", end.Setup)
	r.POST("/api/v1/authenticator/verify", end.Verify)
}
