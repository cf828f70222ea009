package domain

// Tier is a subscription level gating invitation and guest quotas.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierPremium:
		return true
	}
	return false
}

// TierLimits holds the quota configuration for the free and pro tiers.
// Premium carries no limits and therefore has no entries here.
// Loaded once from config at startup.
type TierLimits struct {
	FreeMaxInvitations         int
	FreeMaxGuestsPerInvitation int
	ProMaxInvitations          int
	ProMaxGuestsPerInvitation  int
}

// TierPolicy answers quota questions for a subscription tier. It is pure:
// callers supply current counts, the policy only decides.
type TierPolicy struct {
	limits TierLimits
}

// NewTierPolicy returns a TierPolicy over the given limits.
func NewTierPolicy(limits TierLimits) *TierPolicy {
	return &TierPolicy{limits: limits}
}

// MaxInvitations returns the invitation cap for the tier.
// limited is false when the tier has no cap (premium).
func (p *TierPolicy) MaxInvitations(t Tier) (limit int, limited bool) {
	switch t {
	case TierFree:
		return p.limits.FreeMaxInvitations, true
	case TierPro:
		return p.limits.ProMaxInvitations, true
	default:
		return 0, false
	}
}

// MaxGuestsPerInvitation returns the per-invitation guest cap for the tier.
// limited is false when the tier has no cap (premium).
func (p *TierPolicy) MaxGuestsPerInvitation(t Tier) (limit int, limited bool) {
	switch t {
	case TierFree:
		return p.limits.FreeMaxGuestsPerInvitation, true
	case TierPro:
		return p.limits.ProMaxGuestsPerInvitation, true
	default:
		return 0, false
	}
}

// CanCreateInvitation reports whether a user on the tier with the given
// current invitation count may create another one.
func (p *TierPolicy) CanCreateInvitation(t Tier, current int) bool {
	limit, limited := p.MaxInvitations(t)
	if !limited {
		return true
	}
	return current < limit
}

// InvitationsRemaining returns how many more invitations the tier allows.
// limited is false when the tier has no cap.
func (p *TierPolicy) InvitationsRemaining(t Tier, current int) (remaining int, limited bool) {
	limit, limited := p.MaxInvitations(t)
	if !limited {
		return 0, false
	}
	if remaining = limit - current; remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// GuestCap returns the effective guest cap for one invitation: the smaller of
// the invitation's own max_guests and the tier's per-invitation limit.
// limited is false for premium, which ignores both caps.
func (p *TierPolicy) GuestCap(t Tier, invitationMax int) (cap int, limited bool) {
	tierMax, limited := p.MaxGuestsPerInvitation(t)
	if !limited {
		return 0, false
	}
	cap = invitationMax
	if tierMax < cap {
		cap = tierMax
	}
	return cap, true
}

// CanAddGuest reports whether one more guest fits under the effective cap.
func (p *TierPolicy) CanAddGuest(t Tier, invitationMax, currentGuests int) bool {
	cap, limited := p.GuestCap(t, invitationMax)
	if !limited {
		return true
	}
	return currentGuests < cap
}
