package response

import (
	"loyalty-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type LoginResponse struct {
	UserID      uuid.UUID  `json:"userId"`
	Role        string     `json:"role"`
	PersonID    *uuid.UUID `json:"personId,omitempty"`
	AccessToken string     `json:"accessToken"`
}

func FromLoginResult(result *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		UserID:      result.UserID,
		Role:        result.Role,
		PersonID:    result.PersonID,
		AccessToken: result.AccessToken,
	}
}
