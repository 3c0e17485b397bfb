package account

// ProcedureError carries a failed procedure's message and machine code.
// Error returns the procedure's own message unchanged.
type ProcedureError struct {
	Procedure string
	Code      string
	Message   string
}

func (e *ProcedureError) Error() string {
	return e.Message
}
