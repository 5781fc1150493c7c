package domain

// BulkUserResult reports the outcome of one user within a bulk operation.
// A failed user never aborts the rest of the batch.
type BulkUserResult struct {
	UserID  uint   `json:"user_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
