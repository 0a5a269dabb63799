package common

import (
	"github.com/google/uuid"
)

// NewPostID generates a unique ledger record ID with the "post_" prefix
// Format: post_<uuid>
func NewPostID() string {
	return "post_" + uuid.New().String()
}
