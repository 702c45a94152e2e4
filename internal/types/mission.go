package types

import (
	. "restocoach/internal/models"
)

type MissionErrorCode string

const (
	MissionErrorNotFound      MissionErrorCode = "not_found"
	MissionErrorNotPending    MissionErrorCode = "not_pending"
	MissionErrorWindowClosed  MissionErrorCode = "window_closed"
	MissionErrorLimitReached  MissionErrorCode = "limit_reached"
	MissionErrorNoAlternative MissionErrorCode = "no_alternative"
)

// MissionActionResult carries user-facing outcomes of skip, reload and complete.
// Infrastructure failures are returned as errors next to it instead.
type MissionActionResult struct {
	Success      bool                `json:"success"`
	ErrorCode    MissionErrorCode    `json:"errorCode,omitempty"`
	Error        string              `json:"error,omitempty"`
	Mission      *Mission            `json:"mission,omitempty"`
	Gamification *GamificationResult `json:"gamification,omitempty"`
}

func MissionActionFailed(code MissionErrorCode, message string) MissionActionResult {
	return MissionActionResult{ErrorCode: code, Error: message}
}

func MissionActionSucceeded(mission *Mission) MissionActionResult {
	return MissionActionResult{Success: true, Mission: mission}
}

// BatchResult summarizes a job run over many users. Failures never abort the batch.
type BatchResult struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
