package enums

import (
	"fmt"
	"strings"
)

// InquiryStatus tracks follow-up on a wholesale inquiry.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusClosed    InquiryStatus = "closed"
)

var validInquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusContacted,
	InquiryStatusClosed,
}

func (s InquiryStatus) String() string {
	return string(s)
}

func (s InquiryStatus) IsValid() bool {
	for _, candidate := range validInquiryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInquiryStatus converts raw input into an InquiryStatus.
func ParseInquiryStatus(value string) (InquiryStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validInquiryStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry status %q", value)
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Inquiries only move forward; closed is terminal.
func (s InquiryStatus) CanTransitionTo(next InquiryStatus) bool {
	switch s {
	case InquiryStatusNew:
		return next == InquiryStatusContacted || next == InquiryStatusClosed
	case InquiryStatusContacted:
		return next == InquiryStatusClosed
	default:
		return false
	}
}
