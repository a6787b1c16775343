package creditapp

import "time"

// StatusSubmitted marks an application waiting for the finance desk.
const StatusSubmitted = "submitted"

// MinimumAge is the youngest applicant age accepted.
const MinimumAge = 18

// Application is a credit application tied to a verified phone.
type Application struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DateOfBirth    time.Time
	AnnualIncome   float64
	Employer       string
	HousingPayment float64
	VehicleID      string
	DownPayment    float64
	Status         string
	CreatedAt      time.Time
}

// Input captures a credit application submission.
type Input struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DateOfBirth    time.Time
	AnnualIncome   float64
	Employer       string
	HousingPayment float64
	VehicleID      string
	DownPayment    float64
}

// ageOn returns the number of whole years between dob and day.
func ageOn(dob, day time.Time) int {
	years := day.Year() - dob.Year()
	if day.Month() < dob.Month() || (day.Month() == dob.Month() && day.Day() < dob.Day()) {
		years--
	}
	return years
}
