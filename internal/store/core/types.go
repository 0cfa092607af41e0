package core

import (
	"time"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
)

// Clinic es el tenant: toda entidad clínica o de facturación lleva su id.
type Clinic struct {
	ID, Name, Slug string
	Phone          string
	Address        string
	Settings       map[string]any
	CreatedAt      time.Time
}

// User es la identidad de aplicación del staff. SubjectID vincula con el
// identity provider y es único. TenantID queda vacío solo para cuentas aún
// no incorporadas a una clínica.
type User struct {
	ID        string
	TenantID  string
	SubjectID string
	Email     string
	Name      string
	Role      types.Role
	CreatedAt time.Time
}

type Patient struct {
	ID        string
	TenantID  string
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Gender    string
	BirthDate *time.Time
	// AccessHash es el bcrypt del código de acceso al portal; nil si el
	// paciente no tiene portal habilitado.
	AccessHash *string
	CreatedAt  time.Time
}

// Estados y tipos de turno (enums cerrados a nivel de dominio).
const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
	AppointmentNoShow    = "NO_SHOW"
)

const (
	AppointmentConsultation = "CONSULTATION"
	AppointmentFollowUp     = "FOLLOW_UP"
	AppointmentProcedure    = "PROCEDURE"
	AppointmentEmergency    = "EMERGENCY"
)

type Appointment struct {
	ID          string
	TenantID    string
	PatientID   string
	DoctorID    string
	At          time.Time
	Type        string
	Status      string
	TokenNumber int
	Notes       string
	CreatedAt   time.Time
}

// Visit es el registro EMR de una consulta atendida.
type Visit struct {
	ID            string
	TenantID      string
	PatientID     string
	DoctorID      string
	AppointmentID *string
	Complaint     string
	Diagnosis     string
	Notes         string
	CreatedAt     time.Time
}

type Prescription struct {
	ID       string
	TenantID string
	VisitID  string
	Medicine string
	Dosage   string
	Duration string
	Notes    string
}

type Vitals struct {
	ID          string
	TenantID    string
	PatientID   string
	VisitID     *string
	HeightCm    *float64
	WeightKg    *float64
	Systolic    *int
	Diastolic   *int
	Pulse       *int
	TempCelsius *float64
	RecordedAt  time.Time
}

const (
	InvoicePending   = "PENDING"
	InvoicePaid      = "PAID"
	InvoiceCancelled = "CANCELLED"
)

type Invoice struct {
	ID          string
	TenantID    string
	VisitID     string
	Status      string
	TotalAmount float64
	Items       []InvoiceItem
	CreatedAt   time.Time
	PaidAt      *time.Time
}

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// PlatformStats son los agregados cross-tenant de la consola de operador.
type PlatformStats struct {
	Clinics      int64
	Users        int64
	Patients     int64
	Appointments int64
}
