package utils

// Payment Status Constants
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusFailed  = "FAILED"
)

// Request type attached to checkout metadata
const RequestTypeExamPermit = "EXAM_PERMIT"

// Closed enumerations for the request form. Submissions are rejected
// locally until course, level and semester come from these lists.
var (
	Courses = []string{
		"Computer Science",
		"Accounting",
		"Business Administration",
		"Economics",
		"Law",
		"Mass Communication",
		"Political Science",
		"Public Administration",
	}

	Levels = []string{"100", "200", "300", "400", "500"}

	Semesters = []string{"First", "Second"}
)

// Payment methods accepted at initiation
var PaymentMethods = []string{"card", "bank_transfer", "ussd"}

// Contains reports whether value is one of the allowed entries.
func Contains(allowed []string, value string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}
