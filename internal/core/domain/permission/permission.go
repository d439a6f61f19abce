package permission

// Permission represents a specific capability gate in the console
type Permission string

const (
	// Patients
	ViewPatients       Permission = "VIEW_PATIENTS"
	CreatePatients     Permission = "CREATE_PATIENTS"
	EditPatients       Permission = "EDIT_PATIENTS"
	DeletePatients     Permission = "DELETE_PATIENTS"
	ViewPatientHistory Permission = "VIEW_PATIENT_HISTORY"

	// Appointments
	ViewAppointments           Permission = "VIEW_APPOINTMENTS"
	CreateAppointments         Permission = "CREATE_APPOINTMENTS"
	EditAppointments           Permission = "EDIT_APPOINTMENTS"
	DeleteAppointments         Permission = "DELETE_APPOINTMENTS"
	ViewAllDoctorsAppointments Permission = "VIEW_ALL_DOCTORS_APPOINTMENTS"

	// Billing
	ViewBilling          Permission = "VIEW_BILLING"
	CreateInvoices       Permission = "CREATE_INVOICES"
	EditInvoices         Permission = "EDIT_INVOICES"
	ViewFinancialReports Permission = "VIEW_FINANCIAL_REPORTS"

	// Administration
	ManageUsers          Permission = "MANAGE_USERS"
	ManageClinicSettings Permission = "MANAGE_CLINIC_SETTINGS"

	// Advanced
	ViewAnalytics         Permission = "VIEW_ANALYTICS"
	ExportData            Permission = "EXPORT_DATA"
	UseAIDiagnosis        Permission = "USE_AI_DIAGNOSIS"
	UseAdvancedReporting  Permission = "USE_ADVANCED_REPORTING"
	IntegrationXRay       Permission = "INTEGRATION_XRAY"
	MultiClinicManagement Permission = "MULTI_CLINIC_MANAGEMENT"
)

// String returns the string representation of the permission
func (p Permission) String() string {
	return string(p)
}

// IsValid checks if the permission is a valid permission
func (p Permission) IsValid() bool {
	for _, valid := range GetAllPermissions() {
		if p == valid {
			return true
		}
	}
	return false
}

// GetAllPermissions returns all available permissions in declaration order
func GetAllPermissions() []Permission {
	return []Permission{
		ViewPatients,
		CreatePatients,
		EditPatients,
		DeletePatients,
		ViewPatientHistory,

		ViewAppointments,
		CreateAppointments,
		EditAppointments,
		DeleteAppointments,
		ViewAllDoctorsAppointments,

		ViewBilling,
		CreateInvoices,
		EditInvoices,
		ViewFinancialReports,

		ManageUsers,
		ManageClinicSettings,

		ViewAnalytics,
		ExportData,
		UseAIDiagnosis,
		UseAdvancedReporting,
		IntegrationXRay,
		MultiClinicManagement,
	}
}

// PermissionCategoryResponse groups permissions the way the settings screens list them
type PermissionCategoryResponse struct {
	Patients       []Permission `json:"patients"`
	Appointments   []Permission `json:"appointments"`
	Billing        []Permission `json:"billing"`
	Administration []Permission `json:"administration"`
	Advanced       []Permission `json:"advanced"`
}

// Categorized returns every permission grouped by area.
func Categorized() PermissionCategoryResponse {
	return PermissionCategoryResponse{
		Patients:       []Permission{ViewPatients, CreatePatients, EditPatients, DeletePatients, ViewPatientHistory},
		Appointments:   []Permission{ViewAppointments, CreateAppointments, EditAppointments, DeleteAppointments, ViewAllDoctorsAppointments},
		Billing:        []Permission{ViewBilling, CreateInvoices, EditInvoices, ViewFinancialReports},
		Administration: []Permission{ManageUsers, ManageClinicSettings},
		Advanced:       []Permission{ViewAnalytics, ExportData, UseAIDiagnosis, UseAdvancedReporting, IntegrationXRay, MultiClinicManagement},
	}
}
