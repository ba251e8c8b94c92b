package onboarding

import (
	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// StepDef describes one entry of a role's fixed onboarding sequence.
type StepDef struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Skippable bool   `json:"skippable"`
	// Terminal steps mark onboarding complete when finished or skipped.
	Terminal bool `json:"terminal"`

	flag string // users column the step flips
}

// Step names are part of the wire contract; clients key UI off them.
const (
	StepVerifyEmail     = "verify_email"
	StepCompleteProfile = "complete_profile"
	StepAddLocation     = "add_location"
	StepConnectProvider = "connect_provider"
	StepVerification    = "business_verification"
)

var storeSteps = []StepDef{
	{Number: 1, Name: StepVerifyEmail, flag: "email_verified"},
	{Number: 2, Name: StepCompleteProfile, flag: "profile_completed"},
	{Number: 3, Name: StepAddLocation, Skippable: true, flag: "location_completed"},
	{Number: 4, Name: StepConnectProvider, Skippable: true, Terminal: true, flag: "provider_connected"},
}

var providerSteps = []StepDef{
	{Number: 1, Name: StepVerifyEmail, flag: "email_verified"},
	{Number: 2, Name: StepCompleteProfile, flag: "profile_completed"},
	{Number: 3, Name: StepVerification, Terminal: true, flag: "verification_submitted"},
}

// StepsForRole returns the fixed sequence for the account role. The
// sequence never changes shape at runtime.
func StepsForRole(role enums.AccountRole) []StepDef {
	if role == enums.AccountRoleMaintenance {
		return providerSteps
	}
	return storeSteps
}

// StepByNumber resolves a step definition inside the role's sequence.
func StepByNumber(role enums.AccountRole, number int) (StepDef, bool) {
	for _, step := range StepsForRole(role) {
		if step.Number == number {
			return step, true
		}
	}
	return StepDef{}, false
}

// flagDone reads the denormalized user flag backing a step.
func flagDone(user *models.User, flag string) bool {
	switch flag {
	case "email_verified":
		return user.EmailVerified
	case "profile_completed":
		return user.ProfileCompleted
	case "location_completed":
		return user.LocationCompleted
	case "provider_connected":
		return user.ProviderConnected
	case "verification_submitted":
		return user.VerificationSubmitted
	default:
		return false
	}
}

// DeriveCurrentStep walks the role sequence in priority order and
// returns the first unfinished step number, or 0 when onboarding is
// done. Terminal markers on the user row short-circuit. The result is
// always derived; nothing stores a step pointer.
func DeriveCurrentStep(user *models.User) int {
	if user.OnboardingCompleted || user.OnboardingCompletedAt != nil || user.OnboardingSkippedAt != nil {
		return 0
	}
	for _, step := range StepsForRole(user.AccountRole) {
		if !flagDone(user, step.flag) {
			return step.Number
		}
	}
	return 0
}
