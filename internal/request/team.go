package request

type ApproveMemberRequest struct {
	UserID     int64  `json:"userId" validate:"required,gt=0"`
	TeamCode   string `json:"teamCode" validate:"required"`
	ApprovedBy *int64 `json:"approvedBy,omitempty"`
}

type RejectMemberRequest struct {
	UserID     int64  `json:"userId" validate:"required,gt=0"`
	TeamCode   string `json:"teamCode" validate:"required"`
	RejectedBy *int64 `json:"rejectedBy,omitempty"`
}

// RemoveMemberRequest is the optional body of a member deletion.
type RemoveMemberRequest struct {
	LeaderID *int64 `json:"leaderId,omitempty"`
}
