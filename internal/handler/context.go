package handler

type ContextKey string

var (
	ShiftCtx    ContextKey = "shift"
	EmployeeCtx ContextKey = "employee"
)
