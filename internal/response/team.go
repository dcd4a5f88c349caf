package response

import "github.com/wizdeskofficial/wizdeskofficial/internal/dto"

type MemberDecisionResponse struct {
	Message     string      `json:"message"`
	User        dto.UserDTO `json:"user"`
	EmailSent   *bool       `json:"emailSent,omitempty"`
	EmailMethod string      `json:"emailMethod,omitempty"`
}
