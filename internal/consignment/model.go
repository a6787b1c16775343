package consignment

import "time"

// StatusNew is the status of a freshly submitted lead.
const StatusNew = "new"

// Consignment is a request from a private seller to have the dealership sell a vehicle.
type Consignment struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	VIN         string
	Year        int
	Make        string
	Model       string
	Trim        string
	Mileage     int
	Condition   string
	AskingPrice int64
	Notes       string
	Status      string
	CreatedAt   time.Time
}

// Input captures a consignment submission.
type Input struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	VIN         string
	Year        int
	Make        string
	Model       string
	Trim        string
	Mileage     int
	Condition   string
	AskingPrice int64
	Notes       string
}
