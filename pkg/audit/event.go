// Package audit records apply runs against appliances.
package audit

import (
	"fmt"
	"time"
)

// Operations recorded in the audit log
const (
	OperationApply    = "apply"
	OperationCommit   = "commit"
	OperationSnapshot = "snapshot"
)

// Event is one audited operation against an appliance.
type Event struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	User        string        `json:"user"`
	Host        string        `json:"host"`
	Operation   string        `json:"operation"`
	Kind        string        `json:"kind,omitempty"`
	Entity      string        `json:"entity,omitempty"`
	Source      string        `json:"source,omitempty"`
	Commands    []string      `json:"commands,omitempty"`
	Executed    int           `json:"executed"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ExecuteMode bool          `json:"execute_mode"` // true if -x was used
	DryRun      bool          `json:"dry_run"`
	Saved       bool          `json:"saved,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Host        string
	User        string
	Operation   string
	Entity      string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Last        int // keep only the newest N matches
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, host, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Host:      host,
		Operation: operation,
	}
}

// WithEntity sets the entity kind and name the commands were generated for
func (e *Event) WithEntity(kind, name string) *Event {
	e.Kind = kind
	e.Entity = name
	return e
}

// WithSource sets the desired-state file the run was driven by
func (e *Event) WithSource(path string) *Event {
	e.Source = path
	return e
}

// WithCommands sets the command lines and how many of them ran
func (e *Event) WithCommands(commands []string, executed int) *Event {
	e.Commands = commands
	e.Executed = executed
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks if execute mode was used
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	e.DryRun = !execute
	return e
}

// WithSaved marks that the configuration was written afterwards
func (e *Event) WithSaved(saved bool) *Event {
	e.Saved = saved
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
