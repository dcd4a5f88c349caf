package domain

import "time"

type Team struct {
	CreatedAt time.Time `json:"created_at"`
	LeaderID  *int64    `json:"leader_id,omitempty"`
	TeamCode  string    `json:"team_code"`
	TeamName  string    `json:"team_name"`
	ID        int64     `json:"id"`
}

// TeamCodeLength is the number of characters in a generated team code.
const TeamCodeLength = 6

// MaxTeamCodeAttempts bounds how many candidate codes are tried before
// registration gives up.
const MaxTeamCodeAttempts = 5
