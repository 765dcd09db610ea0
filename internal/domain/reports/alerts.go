package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-community/internal/ports/notify"
	"pet-community/internal/ports/realtime"
)

// Everything in this file is best-effort. It runs after the triggering
// write committed and its response was decided; nothing here may fail
// that request, so failures are logged and dropped.

const alertDispatchTimeout = 30 * time.Second

// AlertPayload is the event body pushed to nearby users' channels.
type AlertPayload struct {
	ReportID     string  `json:"report_id"`
	PetName      string  `json:"pet_name"`
	Species      string  `json:"species"`
	Breed        string  `json:"breed,omitempty"`
	Color        string  `json:"color,omitempty"`
	LastSeenLat  float64 `json:"last_seen_lat"`
	LastSeenLng  float64 `json:"last_seen_lng"`
	LastSeenAddr string  `json:"last_seen_address,omitempty"`
	PhotoURL     string  `json:"photo_url,omitempty"`
}

func (s *Service) alertNearby(r LostPetReport) {
	ctx, cancel := context.WithTimeout(context.Background(), alertDispatchTimeout)
	defer cancel()

	recipients, err := s.users.Nearby(ctx,
		r.LastSeenLocation.Lat, r.LastSeenLocation.Lng,
		alertRadiusMiles, r.ReportedBy)
	if err != nil {
		s.log.Warn("lost pet alert: nearby query failed", map[string]any{
			"report_id": r.ID, "err": err.Error(),
		})
		return
	}
	if len(recipients) == 0 {
		return
	}

	payload := AlertPayload{
		ReportID:     r.ID,
		PetName:      r.PetName,
		Species:      r.Species,
		Breed:        r.Breed,
		Color:        r.Color,
		LastSeenLat:  r.LastSeenLocation.Lat,
		LastSeenLng:  r.LastSeenLocation.Lng,
		LastSeenAddr: r.LastSeenLocation.Address,
	}
	if len(r.PhotoURLs) > 0 {
		payload.PhotoURL = r.PhotoURLs[0]
	}

	// Socket fan-out first: at-most-once to whoever is connected now.
	// Publish is a silent no-op for users with no open channel.
	for _, u := range recipients {
		s.rt.Publish(u.ID, realtime.Event{Type: "lost_pet_alert", Payload: payload})
	}

	s.log.Info("lost pet alert fanned out", map[string]any{
		"report_id": r.ID, "recipients": len(recipients),
	})

	// Then the durable channel, isolated per recipient. A dead mailer
	// never rolls back or blocks the socket fan-out above.
	if s.mailer == nil {
		return
	}
	subject := fmt.Sprintf("Lost pet alert: %s is missing near you", r.PetName)
	for _, u := range recipients {
		email := s.lookupEmail(ctx, u.ID)
		if email == "" {
			continue
		}
		err := s.mailer.Send(ctx, notify.Message{
			To:        email,
			ToName:    u.DisplayName,
			Subject:   subject,
			PlainText: alertPlainText(r),
			HTML:      alertHTML(r),
		})
		if err != nil && !errors.Is(err, notify.ErrNotConfigured) {
			s.log.Warn("lost pet alert: email failed", map[string]any{
				"report_id": r.ID, "user_id": u.ID, "err": err.Error(),
			})
		}
	}
}

// notifySighting emails the report owner and, if distinct, the listed
// contact. Deduplicated by email address.
func (s *Service) notifySighting(r LostPetReport, sighting Sighting) {
	if s.mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), alertDispatchTimeout)
	defer cancel()

	recipients := map[string]string{} // email -> display name
	if owner := s.lookupEmail(ctx, r.ReportedBy); owner != "" {
		recipients[strings.ToLower(owner)] = r.OwnerContact.Name
	}
	if c := strings.TrimSpace(r.OwnerContact.Email); c != "" {
		if _, dup := recipients[strings.ToLower(c)]; !dup {
			recipients[strings.ToLower(c)] = r.OwnerContact.Name
		}
	}

	subject := fmt.Sprintf("Someone spotted %s!", r.PetName)
	body := fmt.Sprintf("A community member reported seeing %s near %s.",
		r.PetName, sightingPlaceText(sighting))
	if sighting.Note != "" {
		body += "\n\nNote from the reporter: " + sighting.Note
	}

	for email, name := range recipients {
		err := s.mailer.Send(ctx, notify.Message{
			To:        email,
			ToName:    name,
			Subject:   subject,
			PlainText: body,
			HTML:      "<p>" + body + "</p>",
		})
		if err != nil && !errors.Is(err, notify.ErrNotConfigured) {
			s.log.Warn("sighting notice: email failed", map[string]any{
				"report_id": r.ID, "err": err.Error(),
			})
		}
	}
}

func (s *Service) lookupEmail(ctx context.Context, userID string) string {
	email, err := s.users.EmailOf(ctx, userID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(email)
}

func sightingPlaceText(s Sighting) string {
	if s.Location.Address != "" {
		return s.Location.Address
	}
	return fmt.Sprintf("(%.4f, %.4f)", s.Location.Lat, s.Location.Lng)
}

func alertPlainText(r LostPetReport) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s, a %s, went missing near %s.\n", r.PetName, describePet(r), sightingPlaceText(Sighting{Location: r.LastSeenLocation}))
	if r.CollarDesc != "" {
		fmt.Fprintf(b, "Collar: %s\n", r.CollarDesc)
	}
	if r.RewardOffer != "" {
		fmt.Fprintf(b, "Reward offered: %s\n", r.RewardOffer)
	}
	fmt.Fprintf(b, "If you spot them, add a sighting to report %s.\n", r.ID)
	return b.String()
}

func alertHTML(r LostPetReport) string {
	return fmt.Sprintf("<p><strong>%s is missing!</strong></p><p>%s was last seen near %s. If you spot them, please add a sighting.</p>",
		r.PetName, describePet(r), sightingPlaceText(Sighting{Location: r.LastSeenLocation}))
}

func describePet(r LostPetReport) string {
	parts := []string{}
	if r.Color != "" {
		parts = append(parts, r.Color)
	}
	if r.Breed != "" {
		parts = append(parts, r.Breed)
	} else if r.Species != "" {
		parts = append(parts, r.Species)
	}
	if len(parts) == 0 {
		return "pet"
	}
	return strings.Join(parts, " ")
}
