package gateway

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	opRegister = op{"register", "Error al registrar usuario"}
	opLogin    = op{"login", "Credenciales inválidas"}
)

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	return call[domain.RegisterResponse](ctx, c, c.users, opRegister, http.MethodPost, "/register", req)
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	return call[domain.LoginResponse](ctx, c, c.users, opLogin, http.MethodPost, "/login", req)
}
