package handler

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	UserInfoCtx      ContextKey = "userInfo"
	CareShiftCtx     ContextKey = "careShift"
	CoverageGapCtx   ContextKey = "coverageGap"
	ShiftTemplateCtx ContextKey = "shiftTemplate"
)
