package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

type HelpPriority string

const (
	PriorityLow    HelpPriority = "low"
	PriorityMedium HelpPriority = "medium"
	PriorityHigh   HelpPriority = "high"
	PriorityUrgent HelpPriority = "urgent"
)

func (p HelpPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type HelpStatus string

const (
	HelpStatusPending    HelpStatus = "pending"
	HelpStatusInProgress HelpStatus = "in_progress"
	HelpStatusResolved   HelpStatus = "resolved"
	HelpStatusClosed     HelpStatus = "closed"
)

func (s HelpStatus) Valid() bool {
	switch s {
	case HelpStatusPending, HelpStatusInProgress, HelpStatusResolved, HelpStatusClosed:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewed  ApplicationStatus = "reviewed"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusHired     ApplicationStatus = "hired"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusInterview,
		ApplicationStatusHired, ApplicationStatusRejected:
		return true
	}
	return false
}

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}
