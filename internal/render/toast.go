package render

type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastWarning ToastKind = "warning"
)

type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

func Info(msg string) Toast    { return Toast{Kind: ToastInfo, Message: msg} }
func Success(msg string) Toast { return Toast{Kind: ToastSuccess, Message: msg} }
func Error(msg string) Toast   { return Toast{Kind: ToastError, Message: msg} }
func Warning(msg string) Toast { return Toast{Kind: ToastWarning, Message: msg} }
