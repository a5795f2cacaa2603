package interfaces

import (
	"context"
	"time"

	"github.com/relplan/plm-proxy/events"
)

//go:generate mockgen -destination=mocks/release_data.go . ReleaseDataService

// Phase is a program milestone, e.g. a design freeze or a build event
type Phase struct {
	ID        string     `json:"ID"`
	Name      string     `json:"Name"`
	Program   string     `json:"Program"`
	Sequence  int        `json:"Sequence"`
	StartDate *time.Time `json:"StartDate,omitempty"`
	EndDate   *time.Time `json:"EndDate,omitempty"`
}

// Part is a released or in-work part planned for a program
type Part struct {
	ID          string `json:"ID"`
	Number      string `json:"Number"`
	Name        string `json:"Name"`
	Version     string `json:"Version"`
	State       string `json:"State"`
	Program     string `json:"Program"`
	TargetPhase string `json:"TargetPhase,omitempty"`
}

// ChangeAction is a change task affecting a part
type ChangeAction struct {
	ID            string     `json:"ID"`
	Number        string     `json:"Number"`
	Name          string     `json:"Name"`
	State         string     `json:"State"`
	PartNumber    string     `json:"PartNumber"`
	ChangeRequest string     `json:"ChangeRequest,omitempty"`
	NeedDate      *time.Time `json:"NeedDate,omitempty"`
}

// ChangeRequest groups change actions of a program
type ChangeRequest struct {
	ID       string     `json:"ID"`
	Number   string     `json:"Number"`
	Name     string     `json:"Name"`
	State    string     `json:"State"`
	Priority string     `json:"Priority,omitempty"`
	Program  string     `json:"Program"`
	NeedDate *time.Time `json:"NeedDate,omitempty"`
}

// ProgramUpdate is emitted after the data of a program was refreshed
type ProgramUpdate struct {
	Program     string    `json:"program"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// ReleaseDataService serves release-planning data for dashboard widgets
type ReleaseDataService interface {
	// GetPhases returns the phases of a program
	GetPhases(ctx context.Context, program string) ([]Phase, CacheStatus, error)

	// GetParts returns the parts planned for a program
	GetParts(ctx context.Context, program string) ([]Part, CacheStatus, error)

	// GetChangeRequests returns the change requests of a program
	GetChangeRequests(ctx context.Context, program string) ([]ChangeRequest, CacheStatus, error)

	// GetChangeActionsForParts returns change actions keyed by part number
	GetChangeActionsForParts(ctx context.Context, partNumbers []string) (map[string][]ChangeAction, CacheStatus, error)

	// RefreshProgram drops cached data of a program and loads it again
	RefreshProgram(ctx context.Context, program string) error

	// SubscribeProgramUpdates subscribes to refresh notifications; Cancel the subscription when done
	SubscribeProgramUpdates() events.ISubscription[ProgramUpdate]
}
