package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/access"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/input"
	"trainingevents/internal/ports/output"
)

// LateRegistrationWindow is how close to its start an event must be for a
// new registration to count as a confirmed RSVP.
const LateRegistrationWindow = 24 * time.Hour

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

// ParticipantService is the registration / RSVP / check-in state machine of
// an (event, user) pair. Every transition runs in a unit of work keyed by
// the pair.
type ParticipantService struct {
	uow    output.UnitOfWork
	stores output.Stores
	users  output.UserDirectory
	cache  output.EventCache
	now    clock
}

func NewParticipantService(deps Dependencies) *ParticipantService {
	return &ParticipantService{
		uow:    deps.UnitOfWork,
		stores: deps.Stores,
		users:  deps.Users,
		cache:  deps.Cache,
		now:    time.Now,
	}
}

// Register creates a live registration. Registering an already registered
// user is a no-op; a declined record is revived.
func (s *ParticipantService) Register(ctx context.Context, actor *entities.Actor, eventID, userID int64) error {
	if err := s.prepareRegistration(ctx, actor, eventID, userID); err != nil {
		return err
	}
	err := s.uow.Do(ctx, output.ParticipantKey(eventID, userID), func(ctx context.Context, st output.Stores) error {
		event, err := registrableEvent(ctx, st, actor, eventID)
		if err != nil {
			return err
		}
		_, err = s.register(ctx, st, event, userID)
		return err
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, eventID)
	return nil
}

// Unregister moves the pair to the declined state, creating the record when
// the user never interacted with the event.
func (s *ParticipantService) Unregister(ctx context.Context, actor *entities.Actor, eventID, userID int64) error {
	if err := access.CheckSelfOr(actor, userID, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	if _, err := s.stores.Events.FindByID(ctx, eventID); err != nil {
		return err
	}
	err := s.uow.Do(ctx, output.ParticipantKey(eventID, userID), func(ctx context.Context, st output.Stores) error {
		p, err := s.findOrNew(ctx, st, eventID, userID)
		if err != nil {
			return err
		}
		now := s.now()
		p.Confirmed = entities.Bool(false)
		p.Declined = entities.Bool(true)
		p.ConfirmationTime = now
		p.UpdatedAt = now
		return st.Participants.Save(ctx, p)
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, eventID)
	return nil
}

// RSVP registers the user when needed, then records the answer.
func (s *ParticipantService) RSVP(ctx context.Context, actor *entities.Actor, eventID, userID int64, confirm bool) error {
	if err := s.prepareRegistration(ctx, actor, eventID, userID); err != nil {
		return err
	}
	err := s.uow.Do(ctx, output.ParticipantKey(eventID, userID), func(ctx context.Context, st output.Stores) error {
		event, err := registrableEvent(ctx, st, actor, eventID)
		if err != nil {
			return err
		}
		p, err := s.register(ctx, st, event, userID)
		if err != nil {
			return err
		}
		now := s.now()
		p.Confirmed = entities.Bool(confirm)
		p.Declined = entities.Bool(!confirm)
		p.ConfirmationTime = now
		p.UpdatedAt = now
		return st.Participants.Save(ctx, p)
	})
	if err != nil {
		return err
	}
	invalidateEvent(ctx, s.cache, eventID)
	return nil
}

// Checkin marks the participant as checked in. It returns false without
// error when the participant is absent, declined, already checked in, or the
// event requires a code that does not match (case-insensitively).
func (s *ParticipantService) Checkin(ctx context.Context, actor *entities.Actor, eventID, userID int64, code string) (bool, error) {
	if err := access.CheckSelfOr(actor, userID, access.AdminOrInstructor).Err(); err != nil {
		return false, err
	}
	checkedIn := false
	err := s.uow.Do(ctx, output.ParticipantKey(eventID, userID), func(ctx context.Context, st output.Stores) error {
		event, err := st.Events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		p, err := st.Participants.Find(ctx, eventID, userID)
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if p.IsDeclined() || p.IsCheckedIn() {
			return nil
		}
		if event.CheckinCodeRequired && (event.CheckinCode == "" || !strings.EqualFold(code, event.CheckinCode)) {
			return nil
		}
		now := s.now()
		p.CheckedIn = entities.Bool(true)
		p.CheckinTime = now
		p.UpdatedAt = now
		if err := st.Participants.Save(ctx, p); err != nil {
			return err
		}
		checkedIn = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return checkedIn, nil
}

// IsRegistered reports whether a live (non-declined) record exists.
func (s *ParticipantService) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	p, err := s.find(ctx, eventID, userID)
	if err != nil || p == nil {
		return false, err
	}
	return p.IsLive(), nil
}

func (s *ParticipantService) DidCheckIn(ctx context.Context, eventID, userID int64) (bool, error) {
	p, err := s.find(ctx, eventID, userID)
	if err != nil || p == nil {
		return false, err
	}
	return p.IsCheckedIn(), nil
}

// DidRSVP reports whether the user confirmed or declined.
func (s *ParticipantService) DidRSVP(ctx context.Context, eventID, userID int64) (bool, error) {
	p, err := s.find(ctx, eventID, userID)
	if err != nil || p == nil {
		return false, err
	}
	return p.HasRSVPed(), nil
}

// GetMembership returns the member flag; unset reads as false.
func (s *ParticipantService) GetMembership(ctx context.Context, actor *entities.Actor, eventID, userID int64) (bool, error) {
	if err := access.Check(actor, access.AnyAuthenticated).Err(); err != nil {
		return false, err
	}
	p, err := s.stores.Participants.Find(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	return p.IsMember(), nil
}

func (s *ParticipantService) SetMembership(ctx context.Context, actor *entities.Actor, eventID, userID int64, member bool) error {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	return s.uow.Do(ctx, output.ParticipantKey(eventID, userID), func(ctx context.Context, st output.Stores) error {
		p, err := st.Participants.Find(ctx, eventID, userID)
		if err != nil {
			return err
		}
		p.Member = entities.Bool(member)
		p.UpdatedAt = s.now()
		return st.Participants.Save(ctx, p)
	})
}

// ListCheckedIn returns the IDs of checked-in users, ascending.
func (s *ParticipantService) ListCheckedIn(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error) {
	return s.listUsers(ctx, actor, eventID, (*entities.Participant).IsCheckedIn)
}

// ListRSVPed returns the IDs of users who confirmed or declined, ascending.
func (s *ParticipantService) ListRSVPed(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error) {
	return s.listUsers(ctx, actor, eventID, (*entities.Participant).HasRSVPed)
}

// ListParticipants returns the IDs of live (non-declined) registrations,
// ascending.
func (s *ParticipantService) ListParticipants(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error) {
	return s.listUsers(ctx, actor, eventID, (*entities.Participant).IsLive)
}

func (s *ParticipantService) listUsers(ctx context.Context, actor *entities.Actor, eventID int64, keep func(*entities.Participant) bool) ([]int64, error) {
	if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
		return nil, err
	}
	if _, err := s.stores.Events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	participants, err := s.stores.Participants.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	ids := make([]int64, 0, len(participants))
	for i := range participants {
		if keep(&participants[i]) {
			ids = append(ids, participants[i].UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// prepareRegistration applies the access rules shared by Register and RSVP
// and checks that both the event and the user exist. The event is read
// again inside the unit of work.
func (s *ParticipantService) prepareRegistration(ctx context.Context, actor *entities.Actor, eventID, userID int64) error {
	if err := access.CheckSelfOr(actor, userID, access.AdminOrInstructor).Err(); err != nil {
		return err
	}
	if _, err := registrableEvent(ctx, s.stores, actor, eventID); err != nil {
		return err
	}
	_, err := s.users.GetUser(ctx, userID)
	return err
}

// registrableEvent loads the event and refuses private events to actors
// other than admins and instructors.
func registrableEvent(ctx context.Context, st output.Stores, actor *entities.Actor, eventID int64) (*entities.Event, error) {
	event, err := st.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Private {
		if err := access.Check(actor, access.AdminOrInstructor).Err(); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// register must run inside the pair's unit of work.
func (s *ParticipantService) register(ctx context.Context, st output.Stores, event *entities.Event, userID int64) (*entities.Participant, error) {
	p, err := st.Participants.Find(ctx, event.ID, userID)
	switch {
	case errors.Is(err, domain.ErrParticipantNotFound):
		p = &entities.Participant{EventID: event.ID, UserID: userID}
	case err != nil:
		return nil, err
	case p.IsLive():
		return p, nil
	default:
		p.Declined = entities.Bool(false)
		p.Confirmed = nil
		p.ConfirmationTime = time.Time{}
	}
	now := s.now()
	if event.StartsWithin(now, LateRegistrationWindow) {
		p.Confirmed = entities.Bool(true)
		p.ConfirmationTime = now
	}
	p.UpdatedAt = now
	if err := st.Participants.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ParticipantService) findOrNew(ctx context.Context, st output.Stores, eventID, userID int64) (*entities.Participant, error) {
	p, err := st.Participants.Find(ctx, eventID, userID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return &entities.Participant{EventID: eventID, UserID: userID}, nil
	}
	return p, err
}

// find returns (nil, nil) when the pair never interacted.
func (s *ParticipantService) find(ctx context.Context, eventID, userID int64) (*entities.Participant, error) {
	p, err := s.stores.Participants.Find(ctx, eventID, userID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return nil, nil
	}
	return p, err
}
