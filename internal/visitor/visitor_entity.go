package visitor

import "strings"

// Field is a canonical visitor field. The set is closed: anything a client sends
// is mapped onto one of these or dropped.
type Field string

const (
	FieldDate           Field = "date"
	FieldName           Field = "name"
	FieldCompany        Field = "company"
	FieldIDNumber       Field = "idNumber"
	FieldInTime         Field = "inTime"
	FieldPurpose        Field = "purpose"
	FieldOutTime        Field = "outTime"
	FieldApprovalPerson Field = "approvalPerson"
	FieldContact        Field = "contact"
	FieldStatus         Field = "status"
)

var fieldTitles = map[Field]string{
	FieldDate:           "Date",
	FieldName:           "Name",
	FieldCompany:        "Company",
	FieldIDNumber:       "ID Number",
	FieldInTime:         "In Time",
	FieldPurpose:        "Purpose",
	FieldOutTime:        "Out Time",
	FieldApprovalPerson: "Approval Person",
	FieldContact:        "Contact",
	FieldStatus:         "Status",
}

// Title is the column title written to the header row.
func (f Field) Title() string {
	return fieldTitles[f]
}

const (
	StatusCheckedIn  = "Checked In"
	StatusCheckedOut = "Checked Out"
)

// DeriveStatus is the only source of a record's status.
func DeriveStatus(outTime string) string {
	if strings.TrimSpace(outTime) == "" {
		return StatusCheckedIn
	}
	return StatusCheckedOut
}

// Record is one visit as stored in one sheet row.
type Record struct {
	RowNumber int
	Fields    map[Field]string
}

func (r Record) Get(f Field) string {
	return r.Fields[f]
}

func (r Record) Active() bool {
	return strings.TrimSpace(r.Get(FieldOutTime)) == ""
}

func (r Record) clone() Record {
	fields := make(map[Field]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Record{RowNumber: r.RowNumber, Fields: fields}
}
