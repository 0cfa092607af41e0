// seed carga una clínica demo con staff y pacientes. Herramienta de
// desarrollo: NO usar contra una base productiva.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
	"github.com/clinicia-hq/clinicia-server/internal/store/pg"
)

func main() {
	var (
		clinicName = flag.String("clinic", "Demo Clinic", "nombre de la clínica demo")
		slug       = flag.String("slug", "demo", "slug de la clínica demo")
		subject    = flag.String("subject", "", "subject id del identity provider para el admin (requerido)")
		email      = flag.String("email", "admin@demo.local", "email del admin")
		accessCode = flag.String("access-code", "123456", "código de acceso del paciente demo")
	)
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL es requerido")
	}
	if *subject == "" {
		log.Fatal("-subject es requerido (subject id del identity provider)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := pg.New(ctx, dsn, pg.Config{})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC()
	clinic := &core.Clinic{
		ID:        uuid.NewString(),
		Name:      *clinicName,
		Slug:      *slug,
		Phone:     "+5491100000000",
		Address:   "Av. Siempreviva 742",
		CreatedAt: now,
	}
	if err := store.CreateClinic(ctx, clinic); err != nil {
		log.Fatalf("crear clínica: %v", err)
	}

	admin := &core.User{
		ID:        uuid.NewString(),
		TenantID:  clinic.ID,
		SubjectID: *subject,
		Email:     *email,
		Name:      "Demo Admin",
		Role:      types.RoleAdmin,
		CreatedAt: now,
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		log.Fatalf("crear admin: %v", err)
	}

	doctor := &core.User{
		ID:        uuid.NewString(),
		TenantID:  clinic.ID,
		SubjectID: "seed-doctor-" + uuid.NewString(),
		Email:     "doctor@demo.local",
		Name:      "Dra. Demo",
		Role:      types.RoleDoctor,
		CreatedAt: now,
	}
	if err := store.CreateUser(ctx, doctor); err != nil {
		log.Fatalf("crear doctor: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*accessCode), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash access code: %v", err)
	}
	hashStr := string(hash)
	birth := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
	patient := &core.Patient{
		ID:         uuid.NewString(),
		TenantID:   clinic.ID,
		FirstName:  "Paciente",
		LastName:   "Demo",
		Phone:      "+5491155555555",
		Email:      "paciente@demo.local",
		Gender:     "F",
		BirthDate:  &birth,
		AccessHash: &hashStr,
		CreatedAt:  now,
	}
	if err := store.CreatePatient(ctx, patient); err != nil {
		log.Fatalf("crear paciente: %v", err)
	}

	appt := &core.Appointment{
		ID:          uuid.NewString(),
		TenantID:    clinic.ID,
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		At:          now.Add(24 * time.Hour),
		Type:        core.AppointmentConsultation,
		Status:      core.AppointmentScheduled,
		TokenNumber: 1,
		CreatedAt:   now,
	}
	if err := store.CreateAppointment(ctx, appt); err != nil {
		log.Fatalf("crear turno: %v", err)
	}

	fmt.Printf("clinic_id=%s\n", clinic.ID)
	fmt.Printf("admin_user_id=%s\n", admin.ID)
	fmt.Printf("doctor_id=%s\n", doctor.ID)
	fmt.Printf("patient_id=%s (portal: tel %s, código %s)\n", patient.ID, patient.Phone, *accessCode)
	fmt.Printf("appointment_id=%s\n", appt.ID)
}
