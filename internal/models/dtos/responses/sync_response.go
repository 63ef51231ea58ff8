package responses

// SyncResultResponse summarizes one synchronizer run.
type SyncResultResponse struct {
	Job      string `json:"job"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Errored  int    `json:"errored"`
	Duration string `json:"duration"`
}
