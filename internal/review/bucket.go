package review

import "strings"

// Classify derives the status bucket from a verdict/status pair. Rules are
// evaluated in a fixed order and the first match wins, so a verdict always
// outranks the correspondence status.
func Classify(verdict, status string) string {
	v := strings.ToLower(verdict)
	s := strings.ToLower(status)

	switch {
	case strings.Contains(v, "commented"):
		return BucketCommented
	case strings.Contains(v, "rejected") && strings.Contains(v, "resubmission"):
		return BucketRejected
	case strings.Contains(v, "approved"):
		return BucketApproved
	}

	switch s {
	case "under review":
		return BucketUnderReview
	case "ready for use":
		return BucketReadyForUse
	case "completed":
		if verdict != "" {
			return verdict
		}
		return BucketCompleted
	case "not accepted":
		return BucketNotAccepted
	case "cancelled":
		return BucketCancelled
	case "obsolete":
		return BucketObsolete
	}

	switch {
	case verdict != "":
		return verdict
	case status != "":
		return status
	default:
		return BucketUnknown
	}
}
