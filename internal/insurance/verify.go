// Package insurance computes the demo's mock eligibility answers. The
// outcome depends only on the visit type; payer and CPT code are accepted
// for interface compatibility with a real clearinghouse call.
package insurance

// Result is the eligibility outcome for a proposed visit.
type Result struct {
	Covered         bool     `json:"covered"`
	CopayEstimate   float64  `json:"copay_estimate"`
	PreauthRequired bool     `json:"preauth_required"`
	Steps           []string `json:"steps"`
}

const defaultVisitType = "screening"

var preauthSteps = []string{
	"Submit indication & notes",
	"Get auth reference",
	"Validity 30 days",
}

// Verify returns the deterministic mock answer: always covered, with
// pre-authorization (and the higher copay) for anything other than a
// screening visit. An empty visitType means screening.
func Verify(payer, cptCode, visitType string) Result {
	if visitType == "" {
		visitType = defaultVisitType
	}

	if visitType == defaultVisitType {
		return Result{
			Covered:       true,
			CopayEstimate: 100.0,
			Steps:         []string{"No pre-auth required"},
		}
	}

	return Result{
		Covered:         true,
		CopayEstimate:   150.0,
		PreauthRequired: true,
		Steps:           append([]string(nil), preauthSteps...),
	}
}
