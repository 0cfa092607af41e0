package core

import (
	"context"
	"time"
)

// Repository es el contrato del data store. Invariante central: toda query
// sobre una entidad tenant-scoped recibe un tenantID ya autorizado por el
// Tenant Guard; los métodos NO re-validan autorización. tenantID vacío
// significa "sin scope" y solo llega desde sesiones SUPER_ADMIN.
type Repository interface {
	Ping(ctx context.Context) error

	UserRepository
	ClinicRepository
	PatientRepository
	AppointmentRepository
	VisitRepository
	InvoiceRepository
}

type UserRepository interface {
	// GetUserBySubjectID es el único read del Session Resolver.
	GetUserBySubjectID(ctx context.Context, subjectID string) (*User, error)
	GetUser(ctx context.Context, tenantID, id string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context, tenantID string) ([]User, error)
	ListDoctors(ctx context.Context, tenantID string) ([]User, error)
}

type ClinicRepository interface {
	CreateClinic(ctx context.Context, c *Clinic) error
	GetClinic(ctx context.Context, id string) (*Clinic, error)
	ListClinics(ctx context.Context) ([]Clinic, error)
	CountStats(ctx context.Context) (PlatformStats, error)
}

type PatientRepository interface {
	CreatePatient(ctx context.Context, p *Patient) error
	GetPatient(ctx context.Context, tenantID, id string) (*Patient, error)
	GetPatientByPhone(ctx context.Context, tenantID, phone string) (*Patient, error)
	UpdatePatient(ctx context.Context, p *Patient) error
	SearchPatients(ctx context.Context, tenantID, q string, limit int) ([]Patient, error)
	SetPatientAccessHash(ctx context.Context, tenantID, id, hash string) error
}

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, a *Appointment) error
	GetAppointment(ctx context.Context, tenantID, id string) (*Appointment, error)
	// ListAppointmentsByDay lista los turnos de una clínica en [from, to).
	ListAppointmentsByDay(ctx context.Context, tenantID string, from, to time.Time) ([]Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, tenantID, patientID string) ([]Appointment, error)
	// CountDoctorConflicts cuenta turnos no cancelados del doctor en la
	// ventana dada (chequeo de double-booking).
	CountDoctorConflicts(ctx context.Context, tenantID, doctorID string, from, to time.Time) (int, error)
	// CountDoctorDay cuenta los turnos del doctor en el día (token number).
	CountDoctorDay(ctx context.Context, tenantID, doctorID string, dayStart, dayEnd time.Time) (int, error)
	UpdateAppointmentStatus(ctx context.Context, tenantID, id, status string) error
}

type VisitRepository interface {
	CreateVisit(ctx context.Context, v *Visit) error
	GetVisit(ctx context.Context, tenantID, id string) (*Visit, error)
	ListVisitsByPatient(ctx context.Context, tenantID, patientID string) ([]Visit, error)
	CreatePrescription(ctx context.Context, p *Prescription) error
	ListPrescriptionsByVisit(ctx context.Context, tenantID, visitID string) ([]Prescription, error)
	RecordVitals(ctx context.Context, v *Vitals) error
	ListVitalsByPatient(ctx context.Context, tenantID, patientID string) ([]Vitals, error)
}

type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, tenantID, id string) (*Invoice, error)
	ListInvoices(ctx context.Context, tenantID, status string) ([]Invoice, error)
	MarkInvoicePaid(ctx context.Context, tenantID, id string, at time.Time) error
}
