package dto

import "time"

type TeamDTO struct {
	ID        int64     `json:"id"`
	TeamCode  string    `json:"team_code"`
	TeamName  string    `json:"team_name"`
	LeaderID  *int64    `json:"leader_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
