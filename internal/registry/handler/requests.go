package handler

import (
	"time"

	"namereg/internal/registry/models"
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
)

// maxNameLength bounds request payloads; the registry's own alphabet rule
// remains the authoritative validation.
const maxNameLength = 64

type registerRequest struct {
	Name string `json:"name"`
}

func (r registerRequest) validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if len(r.Name) > maxNameLength {
		return dErrors.Newf(dErrors.CodeBadRequest, "name exceeds %d characters", maxNameLength)
	}
	return nil
}

type profileUpdateRequest struct {
	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
	Discord  string `json:"discord"`
	Image    string `json:"image"`
	Bio      string `json:"bio"`
}

func (r profileUpdateRequest) toUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Twitter:  r.Twitter,
		Telegram: r.Telegram,
		Discord:  r.Discord,
		Image:    r.Image,
		Bio:      r.Bio,
	}
}

type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r transferRequest) validate() error {
	if r.From == "" || r.To == "" {
		return dErrors.New(dErrors.CodeBadRequest, "from and to accounts are required")
	}
	return nil
}

type approveRequest struct {
	Approved string `json:"approved"`
}

type operatorRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

func (r operatorRequest) validate() error {
	if r.Operator == "" {
		return dErrors.New(dErrors.CodeBadRequest, "operator account is required")
	}
	return nil
}

type feeRequest struct {
	Fee uint64 `json:"fee"`
}

type verifyRequest struct {
	Account string `json:"account"`
}

func (r verifyRequest) validate() error {
	if r.Account == "" {
		return dErrors.New(dErrors.CodeBadRequest, "account is required")
	}
	return nil
}

type recordResponse struct {
	Record       id.RecordID    `json:"record"`
	Name         string         `json:"name"`
	Owner        id.AccountID   `json:"owner"`
	Profile      models.Profile `json:"profile"`
	RegisteredAt time.Time      `json:"registered_at,omitzero"`
}

func toRecordResponse(record models.Record) recordResponse {
	return recordResponse{
		Record:       record.ID,
		Name:         record.Name,
		Owner:        record.Owner,
		Profile:      record.Profile,
		RegisteredAt: record.RegisteredAt,
	}
}

type availabilityResponse struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type resolveResponse struct {
	Name    string       `json:"name"`
	Account id.AccountID `json:"account"`
}

type metadataResponse struct {
	Record   id.RecordID `json:"record"`
	TokenURI string      `json:"token_uri"`
}

type ownedAtResponse struct {
	Account id.AccountID `json:"account"`
	Index   uint64       `json:"index"`
	Record  id.RecordID  `json:"record"`
}

type ownedCountResponse struct {
	Account id.AccountID `json:"account"`
	Count   uint64       `json:"count"`
}

type verifiedResponse struct {
	Account  id.AccountID `json:"account"`
	Verified bool         `json:"verified"`
}

type withdrawResponse struct {
	Amount uint64 `json:"amount"`
}
