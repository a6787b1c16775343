package appointment

import "time"

// Appointment kinds offered on the site.
const (
	KindTestDrive = "test_drive"
	KindService   = "service"
	KindFinancing = "financing"
)

// StatusRequested marks an appointment awaiting staff confirmation.
const StatusRequested = "requested"

// Appointment is a visit request from a shopper.
type Appointment struct {
	ID          string
	Kind        string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	VehicleID   string
	PreferredAt time.Time
	Notes       string
	Status      string
	CreatedAt   time.Time
}

// Input captures an appointment submission.
type Input struct {
	Kind        string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	VehicleID   string
	PreferredAt time.Time
	Notes       string
}
