package entity

import (
	"time"
)

type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusAccepted   JobStatus = "ACCEPTED"
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusCancelled  JobStatus = "CANCELLED"
)

// Terminal reports whether no further transition may leave the status.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type ServiceType string

const (
	ServiceDrivewayCarWash    ServiceType = "DRIVEWAY_CAR_WASH"
	ServiceSnowShoveling      ServiceType = "SNOW_SHOVELING"
	ServiceParkingLotCleaning ServiceType = "PARKING_LOT_CLEANING"
)

// Address is a structured service location. Every field is optional;
// comparison-side normalization lives in the match package.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Job is a customer service request. ProviderID stays nil while the job is
// PENDING and is immutable once set. Jobs are never deleted, only moved to a
// terminal status.
type Job struct {
	ID              string      `json:"id"`
	ServiceType     ServiceType `json:"serviceType"`
	Status          JobStatus   `json:"status"`
	Address         Address     `json:"address"`
	CustomerID      string      `json:"customerId"`
	ProviderID      *string     `json:"providerId,omitempty"`
	ScheduledStart  time.Time   `json:"scheduledStart"`
	ScheduledEnd    time.Time   `json:"scheduledEnd"`
	TotalPriceCents int64       `json:"totalPriceCents"`
	Currency        string      `json:"currency"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// UserProfile is what the profile collaborator returns for an actor: the
// role plus the declared service address (nil when the user never set one).
type UserProfile struct {
	UserID  string   `json:"userId"`
	Role    Role     `json:"role"`
	Address *Address `json:"address,omitempty"`
}
