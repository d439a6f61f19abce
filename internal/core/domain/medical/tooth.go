package medical

// IsValidFDI reports whether n is a tooth number in FDI two-digit notation: quadrants 1-4 hold
// permanent teeth 1-8, quadrants 5-8 hold deciduous teeth 1-5.
func IsValidFDI(n int) bool {
	quadrant, tooth := n/10, n%10
	switch {
	case quadrant >= 1 && quadrant <= 4:
		return tooth >= 1 && tooth <= 8
	case quadrant >= 5 && quadrant <= 8:
		return tooth >= 1 && tooth <= 5
	default:
		return false
	}
}

type Condition string

const (
	ConditionCaries    Condition = "CARIES"
	ConditionMissing   Condition = "MISSING"
	ConditionFilling   Condition = "FILLING"
	ConditionCrown     Condition = "CROWN"
	ConditionRootCanal Condition = "ROOT_CANAL"
)

// ToothFinding is a diagnostic finding on one tooth.
type ToothFinding struct {
	ID          int64     `json:"id"`
	ToothNumber int       `json:"tooth_number"`
	Condition   Condition `json:"condition"`
	Surface     string    `json:"surface,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
}

// CreateFindingRequest is what the chart submits for a tooth.
type CreateFindingRequest struct {
	ToothNumber int       `json:"tooth_number" validate:"required,fdi_tooth"`
	Condition   Condition `json:"condition" validate:"required"`
	Surface     string    `json:"surface,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// FindingPayload is the backend body for a new finding; FoundIn links it to the visit.
type FindingPayload struct {
	ToothNumber int       `json:"tooth_number"`
	Condition   Condition `json:"condition"`
	Surface     string    `json:"surface,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Patient     int64     `json:"patient"`
	FoundIn     *int64    `json:"found_in"`
}

type StepType string

const (
	StepDiagnosis  StepType = "diagnosis"
	StepCleaning   StepType = "cleaning"
	StepFilling    StepType = "filling"
	StepRootCanal  StepType = "root_canal"
	StepExtraction StepType = "extraction"
	StepCrown      StepType = "crown"
	StepFollowup   StepType = "followup"
	StepOther      StepType = "other"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
	StepCancelled StepStatus = "cancelled"
)

// TreatmentStep is one action performed on a tooth during an appointment.
type TreatmentStep struct {
	ID              int64      `json:"id"`
	ToothNumber     int        `json:"tooth_number"`
	StepType        StepType   `json:"step_type"`
	StepTypeDisplay string     `json:"step_type_display,omitempty"`
	Description     string     `json:"description,omitempty"`
	Status          StepStatus `json:"status"`
	StatusDisplay   string     `json:"status_display,omitempty"`
	Price           string     `json:"price,omitempty"`
	CreatedAt       string     `json:"created_at,omitempty"`
	UpdatedAt       string     `json:"updated_at,omitempty"`
	Appointment     int64      `json:"appointment,omitempty"`
}

// CreateTreatmentRequest is what the chart submits for a treatment action.
type CreateTreatmentRequest struct {
	ToothNumber int        `json:"tooth_number" validate:"required,fdi_tooth"`
	StepType    StepType   `json:"step_type" validate:"required,oneof=diagnosis cleaning filling root_canal extraction crown followup other"`
	Description string     `json:"description,omitempty"`
	Price       string     `json:"price,omitempty" validate:"omitempty,numeric"`
	Status      StepStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
}

// TreatmentPayload is the backend body for a new treatment step; Appointment is mandatory.
type TreatmentPayload struct {
	ToothNumber int        `json:"tooth_number"`
	StepType    StepType   `json:"step_type"`
	Description string     `json:"description,omitempty"`
	Price       string     `json:"price,omitempty"`
	Status      StepStatus `json:"status"`
	Appointment int64      `json:"appointment"`
}
