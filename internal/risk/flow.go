package risk

import "github.com/sentraid/riskauth/internal/entity"

var flows = map[entity.RiskLevel]entity.AuthFlow{
	entity.RiskLevelLow:    entity.AuthFlowPasswordless,
	entity.RiskLevelMedium: entity.AuthFlowOTP,
	entity.RiskLevelHigh:   entity.AuthFlowBlocked,
}

// DecideFlow maps a risk level to an authentication flow. Unrecognized
// levels fall back to OTP verification: extra friction rather than an
// open door or a lockout.
func DecideFlow(level entity.RiskLevel) entity.AuthFlow {
	flow, ok := flows[level]
	if !ok {
		return entity.AuthFlowOTP
	}

	return flow
}
