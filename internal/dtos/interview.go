package dtos

// Create a capture session for one interview attempt
type CreateSessionRequest struct {
	InterviewID string `json:"interview_id" binding:"required"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// Device re-selection; empty IDs pick the platform defaults
type SelectDevicesRequest struct {
	VideoDeviceID string `json:"video_device_id"`
	AudioDeviceID string `json:"audio_device_id"`
}

type StopAnswerResponse struct {
	PreviewURL string `json:"preview_url,omitempty"`
}

type TogglePreviewResponse struct {
	ShowPreview bool `json:"show_preview"`
}

// Invite issuing (recruiter side)
type IssueInviteRequest struct {
	InterviewID string `json:"interview_id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

type IssueInviteResponse struct {
	InviteCode string `json:"invite_code"`
}

// Invite status check (candidate side, pre-auth)
type InviteStatusResponse struct {
	Valid       bool   `json:"valid"`
	Message     string `json:"message,omitempty"`
	InterviewID string `json:"interview_id,omitempty"`
}
