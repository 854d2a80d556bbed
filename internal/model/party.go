package model

type GetPartyRequest struct {
	PartyID string `json:"party_id"`
}

type GetPartyResponse struct {
	Party Party `json:"party"`
}

type GetMyPartiesRequest struct{}

type GetMyPartiesResponse struct {
	Parties []Party `json:"parties"`
}

type UpdatePartyRequest struct {
	PartyID     string `json:"party_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdatePartyResponse struct {
	Party Party `json:"party"`
}

type GetPartyMembersRequest struct {
	PartyID string `json:"party_id"`
}

type GetPartyMembersResponse struct {
	Members []PartyMember `json:"members"`
}

type AddPartyMemberRequest struct {
	PartyID string `json:"party_id"`
	UserID  string `json:"user_id"`
}

type AddPartyMemberResponse struct {
	Member PartyMember `json:"member"`
}

type RemovePartyMemberRequest struct {
	PartyID string `json:"party_id"`
	UserID  string `json:"user_id"`
}

type RemovePartyMemberResponse struct{}

type PromotePartyMemberRequest struct {
	PartyID string `json:"party_id"`
	UserID  string `json:"user_id"`
}

type PromotePartyMemberResponse struct {
	Member PartyMember `json:"member"`
}

type DemotePartyMemberRequest struct {
	PartyID string `json:"party_id"`
	UserID  string `json:"user_id"`
}

type DemotePartyMemberResponse struct {
	Member PartyMember `json:"member"`
}

type CompletePartyRequest struct {
	PartyID string `json:"party_id"`
}

type CompletePartyResponse struct {
	Party Party `json:"party"`
}

type ArchivePartyRequest struct {
	PartyID string `json:"party_id"`
}

type ArchivePartyResponse struct {
	Party Party `json:"party"`
}
