package entity

import (
	"github.com/pkg/errors"
)

// ListingCondition is the stored authoring-progress flag.
type ListingCondition string

const (
	ConditionAdding    ListingCondition = "adding"
	ConditionCompleted ListingCondition = "completed"
)

// UploadStatus is the stored asset-upload flag.
type UploadStatus string

const (
	UploadIncomplete UploadStatus = "incomplete"
	UploadCompleted  UploadStatus = "completed"
)

// ListingStatus is the market status of a listing.
type ListingStatus string

const (
	StatusDraft    ListingStatus = "draft"
	StatusActive   ListingStatus = "active"
	StatusSold     ListingStatus = "sold"
	StatusRented   ListingStatus = "rented"
	StatusInactive ListingStatus = "inactive"
	StatusArchived ListingStatus = "archived"
)

// IsValid reports whether the status is one the platform recognises.
func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusSold, StatusRented, StatusInactive, StatusArchived:
		return true
	default:
		return false
	}
}

// IsClosedDeal reports whether the listing has been sold or rented out.
func (s ListingStatus) IsClosedDeal() bool {
	return s == StatusSold || s == StatusRented
}

// Phase is the pipeline progress of a listing.
type Phase int

const (
	// PhaseDrafting: row persisted, assets not yet processed.
	PhaseDrafting Phase = iota
	// PhaseUploaded: assets stored and merged, not yet finalized.
	PhaseUploaded
	// PhaseLive: finalized and on the market (or parked as a finalized draft).
	PhaseLive
	// PhaseArchived: finalized and off the market.
	PhaseArchived
)

func (p Phase) String() string {
	switch p {
	case PhaseDrafting:
		return "drafting"
	case PhaseUploaded:
		return "uploaded"
	case PhaseLive:
		return "live"
	case PhaseArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// ErrIllegalLifecycle is returned when stored flags describe no valid state.
var ErrIllegalLifecycle = errors.New("illegal listing lifecycle flags")

// Lifecycle is the single internal representation of the three stored lifecycle columns.
// Only the constructors below can build one, so impossible flag combinations never exist in memory.
type Lifecycle struct {
	phase  Phase
	status ListingStatus
}

// Drafting is a resumable draft.
func Drafting() Lifecycle {
	return Lifecycle{phase: PhaseDrafting, status: StatusDraft}
}

// Uploaded is a draft whose assets are stored.
func Uploaded() Lifecycle {
	return Lifecycle{phase: PhaseUploaded, status: StatusDraft}
}

// Finalized returns the completed lifecycle for the given market status.
func Finalized(status ListingStatus) Lifecycle {
	switch status {
	case StatusSold, StatusRented, StatusInactive, StatusArchived:
		return Lifecycle{phase: PhaseArchived, status: status}
	default:
		return Lifecycle{phase: PhaseLive, status: status}
	}
}

// Phase returns the pipeline phase.
func (l Lifecycle) Phase() Phase {
	return l.phase
}

// Status returns the market status.
func (l Lifecycle) Status() ListingStatus {
	return l.status
}

// Countable reports whether the listing is live and countable.
func (l Lifecycle) Countable() bool {
	return l.phase == PhaseLive || l.phase == PhaseArchived
}

// Resumable reports whether the listing can be picked up by a follow-up ingestion.
func (l Lifecycle) Resumable() bool {
	return l.phase == PhaseDrafting
}

// Fields translates the lifecycle into the stored columns.
func (l Lifecycle) Fields() (ListingCondition, UploadStatus, ListingStatus) {
	switch l.phase {
	case PhaseDrafting:
		return ConditionAdding, UploadIncomplete, l.status
	case PhaseUploaded:
		return ConditionAdding, UploadCompleted, l.status
	default:
		return ConditionCompleted, UploadCompleted, l.status
	}
}

// LifecycleFromFields parses the stored columns.
func LifecycleFromFields(condition ListingCondition, upload UploadStatus, status ListingStatus) (Lifecycle, error) {
	if status == "" {
		status = StatusDraft
	}

	switch {
	case condition == ConditionAdding && upload == UploadIncomplete:
		return Lifecycle{phase: PhaseDrafting, status: status}, nil
	case condition == ConditionAdding && upload == UploadCompleted:
		return Lifecycle{phase: PhaseUploaded, status: status}, nil
	case condition == ConditionCompleted && upload == UploadCompleted:
		return Finalized(status), nil
	default:
		return Lifecycle{}, errors.Wrapf(ErrIllegalLifecycle, "condition=%s upload=%s status=%s", condition, upload, status)
	}
}
