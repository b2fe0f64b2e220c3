// ABOUTME: Data models for sales CRM entities
// ABOUTME: Defines Account, Deal, Activity structs and the pipeline Stage type
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage is a position in the sales pipeline. The set is closed; anything else
// fails ParseStage.
type Stage string

const (
	StageProspecting   Stage = "prospecting"
	StageQualification Stage = "qualification"
	StageProposal      Stage = "proposal"
	StageNegotiation   Stage = "negotiation"
	StageClosedWon     Stage = "closed_won"
	StageClosedLost    Stage = "closed_lost"
)

// Stages lists every pipeline stage in funnel order.
var Stages = []Stage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// OpenStages lists the non-terminal stages in funnel order.
var OpenStages = []Stage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
}

// ParseStage validates a raw stage string.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.Valid() {
		return "", fmt.Errorf("invalid stage: %s (valid: prospecting, qualification, proposal, negotiation, closed_won, closed_lost)", s)
	}
	return stage, nil
}

func (s Stage) Valid() bool {
	switch s {
	case StageProspecting, StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// Terminal reports whether the stage soft-closes a deal. Terminal deals never
// re-enter scoring.
func (s Stage) Terminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// DefaultProbability returns the win probability assumed for a deal entering
// this stage when the caller does not supply one.
func (s Stage) DefaultProbability() int {
	switch s {
	case StageProspecting:
		return 10
	case StageQualification:
		return 20
	case StageProposal:
		return 40
	case StageNegotiation:
		return 60
	case StageClosedWon:
		return 100
	case StageClosedLost:
		return 0
	}
	return 50
}

type Account struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Industry      string    `json:"industry,omitempty"`
	AnnualRevenue int64     `json:"annual_revenue"` // in cents
	Employees     int       `json:"employees,omitempty"`
	Website       string    `json:"website,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Deal struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Name        string    `json:"name"`
	Amount      int64     `json:"amount"` // in cents
	Stage       Stage     `json:"stage"`
	Probability int       `json:"probability"`
	CloseDate   time.Time `json:"close_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Open reports whether the deal is still in the pipeline.
func (d *Deal) Open() bool {
	return !d.Stage.Terminal()
}

// Activity type constants.
const (
	ActivityDealCreated = "deal_created"
	ActivityDealUpdated = "deal_updated"
	ActivityCall        = "call"
	ActivityEmail       = "email"
	ActivityMeeting     = "meeting"
	ActivityDemo        = "demo"
	ActivityNote        = "note"
)

// Activity is one row of the append-only account activity log. IDs are ULIDs
// so the log sorts by creation time lexicographically.
type Activity struct {
	ID          string    `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
