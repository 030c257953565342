package visitor

type CreateVisitorRequest struct {
	Date           string `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Name           string `json:"name,omitempty"`
	Company        string `json:"company,omitempty"`
	IDNumber       string `json:"idNumber,omitempty"`
	InTime         string `json:"inTime,omitempty"`
	Purpose        string `json:"purpose,omitempty"`
	OutTime        string `json:"outTime,omitempty"`
	ApprovalPerson string `json:"approvalPerson,omitempty"`
	Contact        string `json:"contact,omitempty"`
}

func (r CreateVisitorRequest) fields() map[Field]string {
	return map[Field]string{
		FieldDate:           r.Date,
		FieldName:           r.Name,
		FieldCompany:        r.Company,
		FieldIDNumber:       r.IDNumber,
		FieldInTime:         r.InTime,
		FieldPurpose:        r.Purpose,
		FieldOutTime:        r.OutTime,
		FieldApprovalPerson: r.ApprovalPerson,
		FieldContact:        r.Contact,
	}
}

type CreateVisitorResponse struct {
	RowNumber int `json:"rowNumber"`
	CreateVisitorRequest
	Status string `json:"status"`
}

type CheckoutRequest struct {
	OutTime string `json:"outTime"`
}

type CheckoutResponse struct {
	Key      string `json:"key"`
	KeyField string `json:"keyField"`
	OutTime  string `json:"outTime"`
	Status   string `json:"status"`
}

// VisitorResponse uses the public field names. Variant-specific fields are nil
// when the deployment's schema does not carry them.
type VisitorResponse struct {
	Date           string  `json:"date"`
	Name           string  `json:"name"`
	Company        string  `json:"company"`
	IDNumber       *string `json:"idNumber,omitempty"`
	InTime         string  `json:"inTime"`
	Purpose        string  `json:"purpose"`
	OutTime        string  `json:"outTime"`
	ApprovalPerson *string `json:"approvalPerson,omitempty"`
	Contact        *string `json:"contact,omitempty"`
	Status         string  `json:"status"`
}
