package consignment

// CreateRequest is the public consignment form payload.
type CreateRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"required"`
	VIN         string `json:"vin" validate:"omitempty,len=17,alphanum"`
	Year        int    `json:"year" validate:"required,gte=1900,lte=2100"`
	Make        string `json:"make" validate:"required,max=50"`
	Model       string `json:"model" validate:"required,max=50"`
	Trim        string `json:"trim" validate:"max=50"`
	Mileage     int    `json:"mileage" validate:"gte=0"`
	Condition   string `json:"condition" validate:"required,oneof=excellent good fair poor"`
	AskingPrice int64  `json:"askingPrice" validate:"gte=0"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// CreateResponse acknowledges a stored consignment.
type CreateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (r CreateRequest) input() Input {
	return Input{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		VIN:         r.VIN,
		Year:        r.Year,
		Make:        r.Make,
		Model:       r.Model,
		Trim:        r.Trim,
		Mileage:     r.Mileage,
		Condition:   r.Condition,
		AskingPrice: r.AskingPrice,
		Notes:       r.Notes,
	}
}
