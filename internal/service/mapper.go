package service

import (
	"time"

	"github.com/jskelly/legisync/internal/congress"
	"github.com/jskelly/legisync/internal/domain"
)

// mapLegislator converts one raw upstream member into the storage schema.
// It is total over the weakly structured upstream shape: any missing nested
// field maps to a zero value, never an error.
//
// Party comes from the first party-history entry (the current party).
// Chamber and term start come from the first term on file; term end comes
// from the last term on file, so the two dates bound the full service window.
func mapLegislator(m congress.Member, now time.Time) domain.Legislator {
	legislator := domain.Legislator{
		BioguideID:  m.BioguideID,
		FullName:    m.FullName,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		State:       m.State,
		ProfileURL:  m.URL,
		LastUpdated: now,
	}

	if len(m.PartyHistory) > 0 {
		legislator.Party = m.PartyHistory[0].PartyName
	}

	if len(m.Terms) > 0 {
		first := m.Terms[0]
		last := m.Terms[len(m.Terms)-1]
		legislator.Chamber = first.Chamber
		legislator.TermStartDate = first.Start
		legislator.TermEndDate = last.End
	}

	if m.Depiction != nil {
		legislator.ImageURL = m.Depiction.ImageURL
	}

	return legislator
}
