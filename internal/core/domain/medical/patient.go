package medical

import "strings"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type InsuranceType string

const (
	InsuranceAMO         InsuranceType = "AMO"
	InsuranceMutuelle    InsuranceType = "MUTUELLE"
	InsuranceMutuelleFAR InsuranceType = "MUTUELLE_FAR"
	InsuranceNone        InsuranceType = "NONE"
)

// Patient mirrors the backend patient serializer, including the clinical safety fields.
type Patient struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`

	Gender        Gender `json:"gender,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	Age           *int   `json:"age,omitempty"`
	MedicalAlerts string `json:"medical_alerts,omitempty"`
	Allergies     string `json:"allergies,omitempty"`
	IsHighRisk    bool   `json:"is_high_risk"`

	CIN           string        `json:"cin,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	InsuranceType InsuranceType `json:"insurance_type,omitempty"`
	InsuranceID   string        `json:"insurance_id,omitempty"`

	Findings  []ToothFinding `json:"findings"`
	CreatedAt string         `json:"created_at,omitempty"`
}

// Normalize applies the defaults for fields the backend may omit.
func (p *Patient) Normalize() {
	if p.Findings == nil {
		p.Findings = []ToothFinding{}
	}
	if strings.TrimSpace(p.FullName) == "" {
		p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
}

// PatientQuery filters the patient list.
type PatientQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page"`
}

// Normalized clamps the page to 1 and trims the search text.
func (q PatientQuery) Normalized() PatientQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// PatientPage is one page of the patient list.
type PatientPage struct {
	Results    []Patient `json:"results"`
	TotalCount int       `json:"total_count"`
}

// EmptyPatientPage is what list reads degrade to.
func EmptyPatientPage() *PatientPage {
	return &PatientPage{Results: []Patient{}, TotalCount: 0}
}

// CreatePatientRequest holds the writable patient fields.
type CreatePatientRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`

	Gender        Gender `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	DateOfBirth   string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MedicalAlerts string `json:"medical_alerts,omitempty"`
	Allergies     string `json:"allergies,omitempty"`
	IsHighRisk    bool   `json:"is_high_risk,omitempty"`

	CIN           string        `json:"cin,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	InsuranceType InsuranceType `json:"insurance_type,omitempty" validate:"omitempty,oneof=AMO MUTUELLE MUTUELLE_FAR NONE"`
	InsuranceID   string        `json:"insurance_id,omitempty"`
}

// UpdatePatientRequest is a partial update; nil fields are left untouched.
type UpdatePatientRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1"`

	Gender        *Gender `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	DateOfBirth   *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MedicalAlerts *string `json:"medical_alerts,omitempty"`
	Allergies     *string `json:"allergies,omitempty"`
	IsHighRisk    *bool   `json:"is_high_risk,omitempty"`

	CIN           *string        `json:"cin,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	InsuranceType *InsuranceType `json:"insurance_type,omitempty" validate:"omitempty,oneof=AMO MUTUELLE MUTUELLE_FAR NONE"`
	InsuranceID   *string        `json:"insurance_id,omitempty"`
}
