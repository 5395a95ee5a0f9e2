package domain

type DocumentType string

const (
	DocumentSalarySlip    DocumentType = "salary_slip"
	DocumentLoanStatement DocumentType = "loan_statement"
)

type DocumentStatus string

const (
	DocumentUploading  DocumentStatus = "uploading"
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentProcessing DocumentStatus = "processing"
	DocumentVerified   DocumentStatus = "verified"
	DocumentRejected   DocumentStatus = "rejected"
)

type UploadedDocument struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	DocumentType      DocumentType   `json:"documentType"`
	FileName          string         `json:"fileName"`
	FileSize          int64          `json:"fileSize"`
	FileURL           string         `json:"fileUrl,omitempty"`
	UploadDate        string         `json:"uploadDate"` // ISO-8601, as sent by the client
	Status            DocumentStatus `json:"status"`
	VerificationNotes string         `json:"verificationNotes,omitempty"`
}

type CheckResult struct {
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

type EligibilityChecks struct {
	Employment CheckResult `json:"employment"`
	LoanType   CheckResult `json:"loanType"`
	Salary     CheckResult `json:"salary"`
}

// ExtractedData is what document processing reports back for a verified applicant.
type ExtractedData struct {
	AnnualSalary       float64  `json:"annualSalary"`
	MonthlyLoanPayment float64  `json:"monthlyLoanPayment"`
	LoanBalance        float64  `json:"loanBalance"`
	LoanType           string   `json:"loanType"`
	LoanInterestRate   *float64 `json:"loanInterestRate,omitempty"`
	LoanTermRemaining  *int     `json:"loanTermRemaining,omitempty"`
}

type EligibilityResult struct {
	Eligible      bool              `json:"eligible"`
	Checks        EligibilityChecks `json:"checks"`
	ExtractedData *ExtractedData    `json:"extractedData,omitempty"`
	Message       string            `json:"message"`
}

type EligibilityRequest struct {
	Documents     []UploadedDocument `json:"documents"`
	ExtractedData *ExtractedData     `json:"extractedData,omitempty"`
}

type EligibilityResponse struct {
	EligibilityResult
	Estimate *CalculationResponse `json:"estimate,omitempty"`
}
