package models

// Appointment as listed by the backend. Username is only filled in for admins.
type Appointment struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Username    string `json:"username,omitempty"`
}

type AppointmentForm struct {
	Date        string `json:"date" form:"date" binding:"required"`
	Time        string `json:"time" form:"time" binding:"required"`
	Description string `json:"description" form:"description"`
}

// Form returns the editable fields of the appointment.
func (a Appointment) Form() AppointmentForm {
	return AppointmentForm{Date: a.Date, Time: a.Time, Description: a.Description}
}
