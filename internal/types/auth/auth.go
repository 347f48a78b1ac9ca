package auth

import "github.com/hornhub/hornhub-service/internal/types"

type LoginRequest struct {
	AccessCode string `json:"access_code" validate:"required"`
}

type LoginResponse struct {
	Profile types.Profile `json:"profile"`
	Token   string        `json:"token"`
}
