package request

type SendVerificationRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required"`
	TeamName string `json:"teamName" validate:"required,min=1,max=255"`
}

type SendMemberVerificationRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required"`
	TeamCode string `json:"teamCode" validate:"required,len=6,alphanum"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyEmailCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// VerifyMemberEmailRequest accepts either the link token or the 6-digit code.
type VerifyMemberEmailRequest struct {
	Token string `json:"token" validate:"required_without=Code"`
	Code  string `json:"code" validate:"required_without=Token"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TeamCode string `json:"teamCode" validate:"required"`
}

type CheckMemberStatusRequest struct {
	Email    string `json:"email" validate:"required,email"`
	TeamCode string `json:"teamCode" validate:"required"`
}
