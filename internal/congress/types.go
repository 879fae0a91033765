package congress

// MemberPage is one page of the upstream member list response.
type MemberPage struct {
	Members []Member `json:"members"`
}

// Member is the raw upstream member record. Every nested field is optional:
// the upstream shape is weakly structured and absent data is a modeled case,
// not a runtime surprise. Mapping into the store never fails on it.
type Member struct {
	BioguideID   string        `json:"bioguideId"`
	FullName     string        `json:"fullName"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	PartyHistory []PartyRecord `json:"partyHistory"`
	State        string        `json:"state"`
	Terms        []Term        `json:"terms"`
	URL          string        `json:"url"`
	Depiction    *Depiction    `json:"depiction"`
}

// PartyRecord is one entry of a member's party history, most recent first.
type PartyRecord struct {
	PartyName string `json:"partyName"`
}

// Term is one congressional term served by a member.
type Term struct {
	Chamber string `json:"chamber"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Depiction holds the member's official portrait metadata.
type Depiction struct {
	ImageURL string `json:"imageUrl"`
}
