package entities

import "time"

// Participant represents a user's registration, RSVP and check-in record
// for one event. Tri-state flags are nil until first set.
type Participant struct {
	EventID          int64
	UserID           int64
	Confirmed        *bool
	Declined         *bool
	ConfirmationTime time.Time
	CheckedIn        *bool
	CheckinTime      time.Time
	Member           *bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsConfirmed reports whether the participant confirmed attendance.
func (p *Participant) IsConfirmed() bool { return isTrue(p.Confirmed) }

// IsDeclined reports whether the participant declined or unregistered.
func (p *Participant) IsDeclined() bool { return isTrue(p.Declined) }

// IsCheckedIn reports whether the participant checked in.
func (p *Participant) IsCheckedIn() bool { return isTrue(p.CheckedIn) }

// IsMember reports the member flag, false when unset.
func (p *Participant) IsMember() bool { return isTrue(p.Member) }

// IsLive reports whether the record counts as a registration.
func (p *Participant) IsLive() bool { return !p.IsDeclined() }

// HasRSVPed reports whether the participant confirmed or declined.
func (p *Participant) HasRSVPed() bool { return p.IsConfirmed() || p.IsDeclined() }

// Bool returns a pointer to b, for tri-state fields.
func Bool(b bool) *bool { return &b }

func isTrue(b *bool) bool { return b != nil && *b }
