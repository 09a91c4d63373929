package entity

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

type AuthFlow string

const (
	AuthFlowPasswordless AuthFlow = "passwordless"
	AuthFlowOTP          AuthFlow = "otp_verification"
	AuthFlowBlocked      AuthFlow = "blocked"
)

// Location is a coarse IP-derived location. Unresolvable addresses carry
// the "Unknown" sentinel, loopback addresses the "Local" one.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Region  string `json:"region"`
}

// RiskResult is the outcome of scoring a single attempt. Score is clamped
// to [0,100]; Level is a pure function of Score; Factors lists the fired
// rules in evaluation order.
type RiskResult struct {
	Score    float64   `json:"risk_score"`
	Level    RiskLevel `json:"risk_level"`
	Factors  []string  `json:"factors"`
	Location Location  `json:"location"`
}
